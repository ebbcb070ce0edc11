package directory

import (
	"fmt"
	"strings"
)

// EscapeFormulaValue makes a string safe for interpolation inside a
// single-quoted formula literal.
func EscapeFormulaValue(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(escaped, `'`, `\'`)
}

// ByRecordID builds the "does this record id still exist" predicate used by
// session revalidation and record lookups.
func ByRecordID(recordID string) string {
	return fmt.Sprintf("RECORD_ID() = '%s'", EscapeFormulaValue(recordID))
}

// ByNormalizedEmail matches a Users row whose stored email equals the
// already lowercased, trimmed email.
func ByNormalizedEmail(email string) string {
	return fmt.Sprintf("LOWER({email})='%s'", EscapeFormulaValue(email))
}

// And combines predicates, collapsing the degenerate cases.
func And(predicates ...string) string {
	kept := make([]string, 0, len(predicates))
	for _, predicate := range predicates {
		if strings.TrimSpace(predicate) != "" {
			kept = append(kept, predicate)
		}
	}
	switch len(kept) {
	case 0:
		return ""
	case 1:
		return kept[0]
	default:
		return "AND(" + strings.Join(kept, ", ") + ")"
	}
}

func Or(predicates ...string) string {
	kept := make([]string, 0, len(predicates))
	for _, predicate := range predicates {
		if strings.TrimSpace(predicate) != "" {
			kept = append(kept, predicate)
		}
	}
	switch len(kept) {
	case 0:
		return ""
	case 1:
		return kept[0]
	default:
		return "OR(" + strings.Join(kept, ", ") + ")"
	}
}
