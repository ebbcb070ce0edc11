package session

import (
	"encoding/json"
	"fmt"

	"github.com/educonnect/educonnect/internal/models"
)

// StorageKey is the single global slot holding the serialized session.
const StorageKey = "educonnect_auth"

// legacyPrefixes are obsolete slots left behind by earlier demo builds;
// hydration sweeps them on every start.
var legacyPrefixes = []string{"demo_user", "seed_data", "mock_"}

type KV interface {
	Get(key string) (string, bool, error)
	Put(key string, value string) error
	Delete(key string) error
	DeleteByPrefixes(prefixes []string) (int64, error)
}

// Store persists the session slot. It survives restarts and carries no
// expiry of its own; the token inside decides validity.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load reads the cached session. A corrupted blob is removed and reported
// as absent rather than as an error, so a bad write can never wedge boot.
func (store *Store) Load() (models.StoredAuth, bool, error) {
	raw, found, err := store.kv.Get(StorageKey)
	if err != nil {
		return models.StoredAuth{}, false, fmt.Errorf("read session slot: %w", err)
	}
	if !found {
		return models.StoredAuth{}, false, nil
	}

	var auth models.StoredAuth
	if err := json.Unmarshal([]byte(raw), &auth); err != nil {
		_ = store.kv.Delete(StorageKey)
		return models.StoredAuth{}, false, nil
	}
	if auth.User.ExternalID == "" {
		_ = store.kv.Delete(StorageKey)
		return models.StoredAuth{}, false, nil
	}
	return auth, true, nil
}

func (store *Store) Save(auth models.StoredAuth) error {
	encoded, err := json.Marshal(auth)
	if err != nil {
		return fmt.Errorf("encode session slot: %w", err)
	}
	if err := store.kv.Put(StorageKey, string(encoded)); err != nil {
		return fmt.Errorf("write session slot: %w", err)
	}
	return nil
}

// Clear is idempotent; clearing an empty slot succeeds.
func (store *Store) Clear() error {
	if err := store.kv.Delete(StorageKey); err != nil {
		return fmt.Errorf("clear session slot: %w", err)
	}
	return nil
}

// CleanupLegacy removes obsolete demo and seed slots. Housekeeping only,
// never security relevant.
func (store *Store) CleanupLegacy() (int64, error) {
	return store.kv.DeleteByPrefixes(legacyPrefixes)
}
