package config

import "time"

type Config interface {
	GetAppName() string
	GetBaseURL() string
	GetHTTPTimeout() time.Duration
	GetDataFolder() string
	GetStorePassphrase() string
}

func New() Config {
	return EnvVars{}
}
