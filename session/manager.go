package session

import (
	"strings"
	"sync"

	"github.com/jrsteele09/go-school-app/credstore"
	"github.com/rs/zerolog"
)

const (
	// Tokens shorter than this cannot be real credentials from the API.
	minTokenLength = 10

	schemePrefix = "bearer "
)

// Session is the persisted authenticated identity: the raw bearer token and
// the user id it was issued for. Both fields are always present together; a
// partial session is never handed out.
type Session struct {
	Token  string
	UserID string
}

// Manager composes the two credential-store entries into a Session and
// enforces their joint lifecycle. The store itself sets and clears keys
// independently; atomicity lives here.
type Manager struct {
	store credstore.Store
	log   zerolog.Logger
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for the rollback and clear paths.
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

func NewManager(store credstore.Store, options ...ManagerOption) *Manager {
	m := &Manager{
		store: store,
		log:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// SetSession persists token and user id together. The token is written
// first; if the user id write then fails, the token is deleted again so the
// store never holds a lone token. Either both entries persist or neither
// does.
func (m *Manager) SetSession(token, userID string) bool {
	token = strings.TrimSpace(token)
	userID = strings.TrimSpace(userID)
	if token == "" || userID == "" {
		return false
	}

	if !m.store.Set(credstore.TokenKey, token) {
		return false
	}
	if !m.store.Set(credstore.UserIDKey, userID) {
		m.store.Delete(credstore.TokenKey)
		m.log.Warn().Msg("session save rolled back: user id write failed")
		return false
	}
	return true
}

// GetSession returns the stored session only when both entries are present.
// A lone leftover value is never treated as a valid session.
func (m *Manager) GetSession() (Session, bool) {
	token, okToken := m.store.Get(credstore.TokenKey)
	userID, okUserID := m.store.Get(credstore.UserIDKey)
	if !okToken || !okUserID {
		return Session{}, false
	}
	return Session{Token: token, UserID: userID}, true
}

// ClearSession removes both entries. The target state is fully empty and
// idempotent, so the two unrelated-key deletes run concurrently with no
// ordering requirement.
func (m *Manager) ClearSession() {
	var wg sync.WaitGroup
	for _, key := range []string{credstore.TokenKey, credstore.UserIDKey} {
		key := key
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.store.Delete(key)
		}()
	}
	wg.Wait()
}

// IsValidToken is a last-line sanity gate, not authentication. It rejects
// empty and implausibly short tokens, and tokens carrying a scheme prefix:
// only the raw credential is ever stored or forwarded.
func IsValidToken(token string) bool {
	t := strings.TrimSpace(token)
	if len(t) < minTokenLength {
		return false
	}
	if strings.HasPrefix(strings.ToLower(t), schemePrefix) {
		return false
	}
	return true
}
