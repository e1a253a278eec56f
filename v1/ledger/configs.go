package ledger

import (
	"fmt"
	"time"
)

// Config selects and configures the ingest ledger. When Enabled is false
// an in-memory ledger is used and nothing survives a restart.
type Config struct {
	Enabled bool `yaml:"enabled" envconfig:"LEDGER_ENABLED"`

	Host     string `yaml:"host" envconfig:"LEDGER_POSTGRES_HOST"`
	Port     string `yaml:"port" envconfig:"LEDGER_POSTGRES_PORT"`
	User     string `yaml:"user" envconfig:"LEDGER_POSTGRES_USER"`
	Password string `yaml:"password" envconfig:"LEDGER_POSTGRES_PASSWORD"`
	DbName   string `yaml:"db_name" envconfig:"LEDGER_POSTGRES_DB"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"LEDGER_POSTGRES_SSLMODE"`

	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"LEDGER_POSTGRES_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"LEDGER_POSTGRES_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"LEDGER_POSTGRES_CONN_MAX_LIFETIME"`

	// How often the connection is pinged; a failed ping triggers a reconnect.
	HealthCheckInterval time.Duration `yaml:"health_check_interval" envconfig:"LEDGER_POSTGRES_HEALTH_CHECK_INTERVAL"`
}

// DefaultConfig returns a disabled ledger with local connection defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:                "localhost",
		Port:                "5432",
		User:                "postgres",
		DbName:              "scholar_index",
		SSLMode:             "disable",
		MaxOpenConns:        10,
		MaxIdleConns:        5,
		ConnMaxLifetime:     time.Minute,
		HealthCheckInterval: 10 * time.Second,
	}
}

// DSN renders the connection settings as a libpq keyword/value string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DbName, c.SSLMode)
}

// Validate checks the connection settings of an enabled ledger.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" || c.Port == "" || c.DbName == "" {
		return fmt.Errorf("ledger: host, port and database name are required")
	}
	return nil
}
