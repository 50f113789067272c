package credstore

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	storeFile = "credentials.enc"

	// The current supported version of the encrypted blob format on disk.
	storeFormatVersion = 1
)

// envelope is the on-disk JSON structure holding the ciphertext and KDF
// parameters.
type envelope struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// FileStore keeps all entries in a single passphrase-encrypted file. It is
// the stand-in for a platform keychain: same fail-soft contract, device
// local, no cross-process format. Every failure is swallowed into the
// Store contract and logged at debug level only.
type FileStore struct {
	path       string
	passphrase string
	log        zerolog.Logger
	mu         sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir. The directory must already
// exist; the store file is created on first Set.
func NewFileStore(dir, passphrase string, log zerolog.Logger) *FileStore {
	return &FileStore{
		path:       filepath.Join(dir, storeFile),
		passphrase: passphrase,
		log:        log,
	}
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("credstore: read failed")
		return "", false
	}
	value, ok := entries[key]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (s *FileStore) Set(key, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		// Corrupt store: start over rather than refuse writes forever.
		s.log.Debug().Err(err).Msg("credstore: resetting unreadable store")
		entries = make(map[string]string)
	}
	entries[key] = value
	if err := s.save(entries); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("credstore: write failed")
		return false
	}
	return true
}

func (s *FileStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		// Unreadable store holds nothing retrievable; drop it entirely.
		_ = os.Remove(s.path)
		return
	}
	if _, ok := entries[key]; !ok {
		return
	}
	delete(entries, key)
	if err := s.save(entries); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("credstore: delete failed")
	}
}

func (s *FileStore) load() (map[string]string, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	raw, err := decrypt(s.passphrase, blob)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *FileStore) save(entries map[string]string) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	blob, err := encrypt(s.passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, blob, 0o600)
}

// encrypt derives a key from passphrase and seals raw into a JSON envelope.
func encrypt(passphrase string, raw []byte, N, r, p int) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt[:], N, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [12]byte // zero nonce; salt-bound key guarantees uniqueness
	ct := aead.Seal(nil, nonce[:], raw, salt[:])

	return json.Marshal(envelope{
		V:      storeFormatVersion,
		Salt:   salt[:],
		N:      N,
		R:      r,
		P:      p,
		Cipher: ct,
	})
}

// decrypt opens the JSON envelope using a key derived from passphrase.
func decrypt(passphrase string, blob []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, err
	}
	if env.V > storeFormatVersion {
		return nil, fmt.Errorf("unsupported store version %d", env.V)
	}
	key, err := scrypt.Key([]byte(passphrase), env.Salt, env.N, env.R, env.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [12]byte
	pt, err := aead.Open(nil, nonce[:], env.Cipher, env.Salt)
	if err != nil {
		return nil, errors.New("wrong passphrase or corrupted store")
	}
	return pt, nil
}

// Tunables for scrypt key derivation.
func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }
