package chat

import (
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/educonnect/educonnect/internal/models"
)

type fakeRepository struct {
	mu        sync.Mutex
	messages  []models.ChatMessage
	batches   int
	appendErr error
}

func (repo *fakeRepository) AppendBatch(messages []models.ChatMessage) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.appendErr != nil {
		return repo.appendErr
	}
	repo.messages = append(repo.messages, messages...)
	repo.batches++
	return nil
}

func (repo *fakeRepository) ListByGroup(groupID string) ([]models.ChatMessage, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var result []models.ChatMessage
	for _, message := range repo.messages {
		if message.GroupID == groupID {
			result = append(result, message)
		}
	}
	return result, nil
}

func (repo *fakeRepository) DeleteByGroup(groupID string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	kept := repo.messages[:0]
	var removed int64
	for _, message := range repo.messages {
		if message.GroupID == groupID {
			removed++
			continue
		}
		kept = append(kept, message)
	}
	repo.messages = kept
	return removed, nil
}

func (repo *fakeRepository) batchCount() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.batches
}

func newTestStore(repo *fakeRepository) *Store {
	store := NewStore(repo, log.New(io.Discard, "", 0))
	// Long delay so tests control flushing explicitly.
	store.flushDelay = time.Hour
	return store
}

func TestAppendGeneratesIDAndBuffers(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{}
	store := newTestStore(repo)
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	message, err := store.Append("grp1", "recAna", "Ana", "  Olá, pessoal!  ")
	if err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	parts := strings.SplitN(message.ID, "-", 2)
	if len(parts) != 2 {
		t.Fatalf("id = %q, want millis-suffix shape", message.ID)
	}
	if parts[0] != "1788091200000" {
		t.Fatalf("id prefix = %q, want the epoch milliseconds", parts[0])
	}
	if len(parts[1]) != idSuffixLength {
		t.Fatalf("id suffix length = %d, want %d", len(parts[1]), idSuffixLength)
	}
	if message.Body != "Olá, pessoal!" {
		t.Fatalf("body = %q, want trimmed", message.Body)
	}

	if repo.batchCount() != 0 {
		t.Fatal("message must stay buffered until the debounce fires")
	}
}

func TestAppendValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(&fakeRepository{})

	if _, err := store.Append("grp1", "recAna", "Ana", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("error = %v, want ErrEmptyMessage", err)
	}
	long := strings.Repeat("a", MaxMessageLength+1)
	if _, err := store.Append("grp1", "recAna", "Ana", long); !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("error = %v, want ErrMessageTooLong", err)
	}
	exact := strings.Repeat("é", MaxMessageLength)
	if _, err := store.Append("grp1", "recAna", "Ana", exact); err != nil {
		t.Fatalf("limit counts characters not bytes: %v", err)
	}
}

func TestListFlushesBufferFirst(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{}
	store := newTestStore(repo)

	if _, err := store.Append("grp1", "recAna", "Ana", "primeira"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if _, err := store.Append("grp1", "recBeto", "Beto", "segunda"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	messages, err := store.ListByGroup("grp1")
	if err != nil {
		t.Fatalf("ListByGroup() error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if repo.batchCount() != 1 {
		t.Fatalf("flushed %d batches, want a single batch for both messages", repo.batchCount())
	}
}

func TestDebounceFlushes(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{}
	store := NewStore(repo, log.New(io.Discard, "", 0))
	store.flushDelay = 10 * time.Millisecond

	if _, err := store.Append("grp1", "recAna", "Ana", "oi"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for repo.batchCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("debounced flush never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFailedFlushKeepsBuffer(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{appendErr: errors.New("disk full")}
	store := newTestStore(repo)

	if _, err := store.Append("grp1", "recAna", "Ana", "oi"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := store.Flush(); err == nil {
		t.Fatal("expected flush failure")
	}

	repo.mu.Lock()
	repo.appendErr = nil
	repo.mu.Unlock()

	if err := store.Flush(); err != nil {
		t.Fatalf("retry Flush() error: %v", err)
	}
	messages, err := store.ListByGroup("grp1")
	if err != nil {
		t.Fatalf("ListByGroup() error: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("got %d messages after retry, want 1", len(messages))
	}
}

func TestClearGroupDropsBufferedAndPersisted(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{}
	store := newTestStore(repo)

	if _, err := store.Append("grp1", "recAna", "Ana", "para apagar"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := store.Flush(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if _, err := store.Append("grp1", "recAna", "Ana", "ainda no buffer"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if _, err := store.Append("grp2", "recAna", "Ana", "outro grupo"); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	removed, err := store.ClearGroup("grp1")
	if err != nil {
		t.Fatalf("ClearGroup() error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed %d persisted rows, want 1", removed)
	}

	grp1, err := store.ListByGroup("grp1")
	if err != nil {
		t.Fatalf("ListByGroup() error: %v", err)
	}
	if len(grp1) != 0 {
		t.Fatalf("grp1 still has %d messages", len(grp1))
	}

	grp2, err := store.ListByGroup("grp2")
	if err != nil {
		t.Fatalf("ListByGroup() error: %v", err)
	}
	if len(grp2) != 1 {
		t.Fatalf("grp2 has %d messages, want the untouched one", len(grp2))
	}
}
