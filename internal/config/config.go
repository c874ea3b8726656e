// Package config provides the configuration of the tracker: the ledger
// itself, its storage backend, the HTTP server and logging.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/damon-houk/kas-tracker/internal/domain/calendar"
)

// Storage backends
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds the complete application configuration
type Config struct {
	Ledger  LedgerConfig
	Storage StorageConfig
	Server  ServerConfig
	Logging LoggingConfig

	// Source is the config file that was read, empty when none was found
	Source string
}

// LedgerConfig contains the bookkeeping settings
type LedgerConfig struct {
	StartDate         string // First day of the journey, YYYY-MM-DD
	Timezone          string // IANA name, or "Local"
	StorageKey        string // Key of the persisted blob
	DefaultProfitName string // Label of profit records entered without a name
}

// StorageConfig selects and configures the blob backend
type StorageConfig struct {
	Backend    string
	BadgerPath string
	SyncWrites bool
	SQLitePath string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// Location resolves the configured time zone
func (c LedgerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *Config) validate() error {
	var validationErrors []string

	if _, err := time.Parse(calendar.DateLayout, c.Ledger.StartDate); err != nil {
		validationErrors = append(validationErrors, "APP_START_DATE must be a date in YYYY-MM-DD format")
	}
	if _, err := c.Ledger.Location(); err != nil {
		validationErrors = append(validationErrors, "APP_TIMEZONE must be a known time zone")
	}
	if c.Ledger.StorageKey == "" {
		validationErrors = append(validationErrors, "STORAGE_KEY is required")
	}

	switch c.Storage.Backend {
	case BackendBadger:
		if c.Storage.BadgerPath == "" {
			validationErrors = append(validationErrors, "BADGER_PATH is required for the badger backend")
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			validationErrors = append(validationErrors, "SQLITE_DB_PATH is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		validationErrors = append(validationErrors, "DATA_BACKEND must be one of badger, sqlite, memory")
	}

	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
