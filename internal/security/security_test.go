package security

import (
	"strings"
	"testing"
)

func TestPasswordDigestIsDeterministicLowercaseHex(t *testing.T) {
	t.Parallel()

	first := PasswordDigest("secret1")
	second := PasswordDigest("secret1")
	if first != second {
		t.Fatalf("digest not deterministic: %q vs %q", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("digest length = %d, want 64", len(first))
	}
	if first != strings.ToLower(first) {
		t.Fatalf("digest %q is not lowercase", first)
	}
	if PasswordDigest("secret2") == first {
		t.Fatal("different passwords produced the same digest")
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	stored := PasswordDigest("secret1")
	if !VerifyPassword("secret1", stored) {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword("wrong", stored) {
		t.Fatal("expected mismatching password to fail")
	}
	if VerifyPassword("secret1", "") {
		t.Fatal("expected empty stored digest to fail")
	}
}

func TestRandomString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		length   int
		alphabet string
		wantErr  bool
	}{
		{name: "negative length", length: -1, alphabet: "abc", wantErr: true},
		{name: "empty alphabet", length: 1, alphabet: "", wantErr: true},
		{name: "zero length", length: 0, alphabet: "abc"},
		{name: "single character alphabet", length: 8, alphabet: "X"},
		{name: "message id alphabet", length: 9, alphabet: MessageIDAlphabet},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := RandomString(test.length, test.alphabet)
			if test.wantErr {
				if err == nil {
					t.Fatalf("RandomString(%d, %q) expected error", test.length, test.alphabet)
				}
				return
			}
			if err != nil {
				t.Fatalf("RandomString(%d, %q) returned error: %v", test.length, test.alphabet, err)
			}
			if len(got) != test.length {
				t.Fatalf("RandomString(%d, %q) len = %d", test.length, test.alphabet, len(got))
			}
			for _, char := range got {
				if !strings.ContainsRune(test.alphabet, char) {
					t.Fatalf("RandomString produced %q outside alphabet %q", char, test.alphabet)
				}
			}
		})
	}
}
