// Package chat keeps group-chat messages on the device. Messages are
// buffered in memory and written behind a short debounce so a burst of
// sends costs one database batch instead of one write per message.
package chat

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/educonnect/educonnect/internal/models"
	"github.com/educonnect/educonnect/internal/security"
)

const (
	MaxMessageLength = 1000

	defaultFlushDelay = 300 * time.Millisecond
	idSuffixLength    = 9
)

var (
	ErrEmptyMessage   = errors.New("message body is empty")
	ErrMessageTooLong = fmt.Errorf("message body exceeds %d characters", MaxMessageLength)
)

// Repository is the persistence slice the store needs.
type Repository interface {
	AppendBatch(messages []models.ChatMessage) error
	ListByGroup(groupID string) ([]models.ChatMessage, error)
	DeleteByGroup(groupID string) (int64, error)
}

// Store buffers appended messages and flushes them as a batch once the
// debounce window closes. Reads flush first so a sender always sees their
// own message.
type Store struct {
	mu      sync.Mutex
	pending []models.ChatMessage
	timer   *time.Timer

	repo       Repository
	logger     *log.Logger
	flushDelay time.Duration
	now        func() time.Time
}

func NewStore(repo Repository, logger *log.Logger) *Store {
	return &Store{
		repo:       repo,
		logger:     logger,
		flushDelay: defaultFlushDelay,
		now:        time.Now,
	}
}

// Append validates and buffers a message. The returned message carries the
// generated id and timestamp; persistence happens after the debounce.
func (store *Store) Append(groupID string, authorID string, authorName string, body string) (models.ChatMessage, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}
	if len([]rune(trimmed)) > MaxMessageLength {
		return models.ChatMessage{}, ErrMessageTooLong
	}

	createdAt := store.now()
	id, err := messageID(createdAt)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("generate message id: %w", err)
	}

	message := models.ChatMessage{
		ID:         id,
		GroupID:    groupID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Body:       trimmed,
		CreatedAt:  createdAt,
	}

	store.mu.Lock()
	store.pending = append(store.pending, message)
	store.scheduleFlushLocked()
	store.mu.Unlock()

	return message, nil
}

// ListByGroup returns the group's messages oldest first, including anything
// still sitting in the debounce buffer.
func (store *Store) ListByGroup(groupID string) ([]models.ChatMessage, error) {
	if err := store.Flush(); err != nil {
		return nil, err
	}
	return store.repo.ListByGroup(groupID)
}

// ClearGroup drops every message of the group, buffered or persisted, and
// returns how many persisted rows were removed.
func (store *Store) ClearGroup(groupID string) (int64, error) {
	store.mu.Lock()
	kept := store.pending[:0]
	for _, message := range store.pending {
		if message.GroupID != groupID {
			kept = append(kept, message)
		}
	}
	store.pending = kept
	store.mu.Unlock()

	return store.repo.DeleteByGroup(groupID)
}

// Flush writes the buffered messages out immediately. A failed flush keeps
// the buffer so the next flush retries the same batch.
func (store *Store) Flush() error {
	store.mu.Lock()
	if store.timer != nil {
		store.timer.Stop()
		store.timer = nil
	}
	batch := store.pending
	store.pending = nil
	store.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	if err := store.repo.AppendBatch(batch); err != nil {
		store.mu.Lock()
		store.pending = append(batch, store.pending...)
		store.mu.Unlock()
		return fmt.Errorf("flush chat messages: %w", err)
	}
	return nil
}

// Close flushes whatever is still buffered. Call on shutdown.
func (store *Store) Close() error {
	return store.Flush()
}

func (store *Store) scheduleFlushLocked() {
	if store.timer != nil {
		store.timer.Stop()
	}
	store.timer = time.AfterFunc(store.flushDelay, func() {
		if err := store.Flush(); err != nil {
			store.logger.Printf("chat: background flush failed: %v", err)
		}
	})
}

// messageID mirrors the id shape the web client used: milliseconds since
// the epoch, a dash, and nine base36 characters.
func messageID(createdAt time.Time) (string, error) {
	suffix, err := security.RandomString(idSuffixLength, security.MessageIDAlphabet)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(createdAt.UnixMilli(), 10) + "-" + suffix, nil
}
