package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/ilogapp/ilog-cli/internal/config"
	"github.com/ilogapp/ilog-cli/internal/crypto"
	"github.com/ilogapp/ilog-cli/internal/models"
)

const (
	keyringService = "ilog"
	keyringUser    = "session"

	fallbackFileName = ".session"
)

// ErrNoSession is returned by Load when no session has been stored.
var ErrNoSession = errors.New("no stored session")

// Store persists the Session blob in the system keyring, falling back to an
// encrypted file on headless systems. The fallback file key is derived from
// the device ID, so a copied file is useless on another machine.
type Store struct {
	deviceID     string
	fallbackPath string

	mu              sync.Mutex
	fallbackMode    bool
	fallbackChecked bool
}

// NewStore creates a session store bound to this installation's device ID.
func NewStore(deviceID string) (*Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return &Store{
		deviceID:     deviceID,
		fallbackPath: filepath.Join(dir, fallbackFileName),
	}, nil
}

// checkKeyringAvailable tests if the system keyring is usable.
func (s *Store) checkKeyringAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fallbackChecked {
		return !s.fallbackMode
	}

	testKey := "ilog-keyring-test"
	err := keyring.Set(keyringService, testKey, "test")
	if err != nil {
		s.fallbackMode = true
		s.fallbackChecked = true
		return false
	}

	_ = keyring.Delete(keyringService, testKey)
	s.fallbackChecked = true
	return true
}

// Save stores the session.
func (s *Store) Save(sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if s.checkKeyringAvailable() {
		if err := keyring.Set(keyringService, keyringUser, string(data)); err != nil {
			return fmt.Errorf("failed to store session in keyring: %w", err)
		}
		return nil
	}

	return s.saveFallback(data)
}

// Load retrieves the stored session. Returns ErrNoSession when nothing
// (or nothing readable) is stored.
func (s *Store) Load() (*models.Session, error) {
	var data []byte

	if s.checkKeyringAvailable() {
		raw, err := keyring.Get(keyringService, keyringUser)
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, ErrNoSession
			}
			return nil, fmt.Errorf("failed to read session from keyring: %w", err)
		}
		data = []byte(raw)
	} else {
		raw, err := s.loadFallback()
		if err != nil {
			return nil, err
		}
		data = raw
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Clear removes the stored session from both keyring and fallback file.
func (s *Store) Clear() error {
	var keyringErr error
	if s.checkKeyringAvailable() {
		keyringErr = keyring.Delete(keyringService, keyringUser)
		if errors.Is(keyringErr, keyring.ErrNotFound) {
			keyringErr = nil
		}
	}

	fallbackErr := os.Remove(s.fallbackPath)
	if fallbackErr != nil && os.IsNotExist(fallbackErr) {
		fallbackErr = nil
	}

	if keyringErr != nil {
		return fmt.Errorf("failed to clear session: %w", keyringErr)
	}
	if fallbackErr != nil {
		return fmt.Errorf("failed to clear session file: %w", fallbackErr)
	}
	return nil
}

// Fallback file layout: base64(salt || nonce || ciphertext).

func (s *Store) saveFallback(plaintext []byte) error {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return err
	}
	key := crypto.DeriveKey(s.deviceID, salt, crypto.PBKDF2Iterations)

	ciphertext, nonce, err := crypto.Encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	blob := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	encoded := base64.StdEncoding.EncodeToString(blob)

	if err := os.MkdirAll(filepath.Dir(s.fallbackPath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(s.fallbackPath, []byte(encoded), 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (s *Store) loadFallback() ([]byte, error) {
	encoded, err := os.ReadFile(s.fallbackPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	blob, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	if len(blob) < crypto.SaltLength+crypto.NonceLength {
		return nil, fmt.Errorf("session file too short")
	}

	salt := blob[:crypto.SaltLength]
	nonce := blob[crypto.SaltLength : crypto.SaltLength+crypto.NonceLength]
	ciphertext := blob[crypto.SaltLength+crypto.NonceLength:]

	key := crypto.DeriveKey(s.deviceID, salt, crypto.PBKDF2Iterations)
	plaintext, err := crypto.Decrypt(ciphertext, nonce, key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt session: %w", err)
	}
	return plaintext, nil
}

// StorageMode returns a string describing where the session is kept.
func (s *Store) StorageMode() string {
	if s.checkKeyringAvailable() {
		return "system-keyring"
	}
	return "encrypted-file (keyring unavailable)"
}
