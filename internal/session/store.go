// Package session persists the user session cache and other small local
// records between runs.
//
// Reads fail soft: a missing, corrupt, or expired entry is simply absent.
// Nothing in this package ever surfaces a parse error to callers; the worst
// case is a forced return to the logged-out state.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Well-known store keys, matching the names the suite has always used.
const (
	UserDataKey  = "userData"
	AuthTokenKey = "authToken"
	CookiesKey   = "cookies"
	ExpensesKey  = "expenses"
)

// Store is the persistence contract for session-scoped records.
type Store interface {
	// Read unmarshals the entry for key into v. Returns false when the key
	// is missing, expired, or unreadable.
	Read(key string, v any) bool

	// Write serializes v as JSON and persists it with the given lifetime.
	Write(key string, v any, ttl time.Duration) error

	// Clear removes the entry unconditionally. Idempotent.
	Clear(key string) error
}

// envelope wraps every stored payload with its expiry.
type envelope struct {
	ExpiresAt time.Time       `json:"expires_at"`
	Payload   json.RawMessage `json:"payload"`
}

// FileStore keeps one JSON file per key under a directory, mode 0600.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Read implements Store.
func (s *FileStore) Read(key string, v any) bool {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	return decodeEnvelope(data, v, s.now())
}

// Write implements Store.
func (s *FileStore) Write(key string, v any, ttl time.Duration) error {
	data, err := encodeEnvelope(v, s.now().Add(ttl))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0600)
}

// Clear implements Store.
func (s *FileStore) Clear(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func encodeEnvelope(v any, expiresAt time.Time) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{ExpiresAt: expiresAt, Payload: payload})
}

func decodeEnvelope(data []byte, v any, now time.Time) bool {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false
	}
	if !env.ExpiresAt.After(now) {
		return false
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return false
	}
	return true
}
