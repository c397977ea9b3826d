// Package config loads and validates client construction settings
// from defaults, an optional YAML file and environment variables.
package config

import "time"

// Config is the root configuration for building a service client.
type Config struct {
	Client ClientConfig `koanf:"client"`
	Log    LogConfig    `koanf:"log"`
}

// ClientConfig holds the HTTP client construction settings.
type ClientConfig struct {
	// BaseURLs is the ordered list of server base URLs. Declaration
	// order is failover order. Arbitrary scheme/host/port/path
	// formatting is accepted.
	BaseURLs []string `koanf:"baseurls" validate:"required,min=1,dive,required"`
	// Timeout is the per-attempt request timeout.
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}
