package session

import (
	"crypto/rand"
	"crypto/sha256"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// SealedStore is a FileStore variant that encrypts envelopes at rest with
// XChaCha20-Poly1305. The cipher key is derived with HKDF-SHA256 from a
// machine-local key file, created on first use.
//
// This protects the cached session from casual disk reads. It is not a
// substitute for server-side token revocation.
type SealedStore struct {
	dir string
	key []byte
	now func() time.Time
}

const sealInfo = "taskdeck session store"

// NewSealedStore creates a sealed store rooted at dir, deriving its key from
// the file at keyPath. The key file is generated if absent.
func NewSealedStore(dir, keyPath string) (*SealedStore, error) {
	material, err := loadOrCreateKey(keyPath)
	if err != nil {
		return nil, err
	}

	h := hkdf.New(sha256.New, material, nil, []byte(sealInfo))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}

	return &SealedStore{dir: dir, key: key, now: time.Now}, nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	material, err := os.ReadFile(path)
	if err == nil && len(material) >= 32 {
		return material, nil
	}
	material = make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, material); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, material, 0600); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *SealedStore) path(key string) string {
	return filepath.Join(s.dir, key+".sealed")
}

// Read implements Store. A file that fails to decrypt is treated as absent.
func (s *SealedStore) Read(key string, v any) bool {
	box, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return false
	}
	if len(box) < aead.NonceSize() {
		return false
	}
	nonce, sealed := box[:aead.NonceSize()], box[aead.NonceSize():]
	data, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return false
	}

	return decodeEnvelope(data, v, s.now())
}

// Write implements Store.
func (s *SealedStore) Write(key string, v any, ttl time.Duration) error {
	data, err := encodeEnvelope(v, s.now().Add(ttl))
	if err != nil {
		return err
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	box := aead.Seal(nonce, nonce, data, nil)

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path(key), box, 0600)
}

// Clear implements Store.
func (s *SealedStore) Clear(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
