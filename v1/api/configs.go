package api

import "time"

// Config holds the HTTP server settings.
type Config struct {
	// Address the server listens on, e.g. ":8080".
	Address string `yaml:"address" envconfig:"API_ADDRESS"`

	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"API_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"API_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"API_SHUTDOWN_TIMEOUT"`

	// Largest accepted request body. A 1024 float vector plus a long
	// abstract fits comfortably in the default.
	MaxBodyBytes int64 `yaml:"max_body_bytes" envconfig:"API_MAX_BODY_BYTES"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Address:         ":8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
	}
}
