package config

import (
	"os"
	"time"
)

const (
	appNameVar     = "APP_NAME"
	baseURLVar     = "BASE_URL"
	timeoutVar     = "HTTP_TIMEOUT"
	folderEnvVar   = "FOLDER"
	passphraseVar  = "STORE_PASSPHRASE"
	defaultBaseURL = "https://aapsuj.accevate.co/flutter-api"
	defaultTimeout = 15 * time.Second
)

type EnvVars struct{}

var _ Config = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "School App")
}

// GetBaseURL returns the base URL of the PHP API, without a trailing slash.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, defaultBaseURL)
}

func (EnvVars) GetHTTPTimeout() time.Duration {
	raw := GetEnv(timeoutVar, "")
	if raw == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

// GetStorePassphrase returns the passphrase protecting the credential store
// at rest. The default keeps a fresh install working; real deployments set
// STORE_PASSPHRASE to a device-specific secret.
func (EnvVars) GetStorePassphrase() string {
	return GetEnv(passphraseVar, "school-app-local")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
