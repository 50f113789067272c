package credstore

// Keys under which the session credentials are persisted.
const (
	TokenKey  = "AUTH_TOKEN"
	UserIDKey = "USER_ID"
)

// Store is a fail-soft key-value store for device-local secrets. A flaky
// backing store must degrade to "treat as logged out", never to a crash:
//
//   - Get returns false when the key is absent or the store fails.
//   - Set returns false when the value is empty after trimming or when
//     persistence fails.
//   - Delete never reports failure.
//
// Operations are per-key and side-effect isolated, so independent keys are
// safe to access concurrently.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) bool
	Delete(key string)
}
