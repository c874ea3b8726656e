package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoadConfig reads <name>.env from ./configs or the working directory, then
// lets environment variables override it. A missing file is not an error.
func LoadConfig(name string) (*Config, error) {
	return loadConfig(name+".env", "env")
}

// Load reads the configuration from defaults and the environment only
func Load() (*Config, error) {
	return loadConfig("", "")
}

func loadConfig(configName, configType string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	var source string
	if configName != "" {
		v.SetConfigName(configName)
		if configType != "" {
			v.SetConfigType(configType)
		}
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			source = v.ConfigFileUsed()
		}
	}

	v.AutomaticEnv()

	config := &Config{
		Ledger: LedgerConfig{
			StartDate:         strings.TrimSpace(v.GetString("APP_START_DATE")),
			Timezone:          strings.TrimSpace(v.GetString("APP_TIMEZONE")),
			StorageKey:        v.GetString("STORAGE_KEY"),
			DefaultProfitName: v.GetString("PROFIT_DEFAULT_NAME"),
		},
		Storage: StorageConfig{
			Backend:    strings.ToLower(strings.TrimSpace(v.GetString("DATA_BACKEND"))),
			BadgerPath: v.GetString("BADGER_PATH"),
			SyncWrites: v.GetBool("BADGER_SYNC_WRITES"),
			SQLitePath: v.GetString("SQLITE_DB_PATH"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Source: source,
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_START_DATE", "2026-01-19")
	v.SetDefault("APP_TIMEZONE", "Local")
	v.SetDefault("STORAGE_KEY", "kas_v11_journey")
	v.SetDefault("PROFIT_DEFAULT_NAME", "Jualan")

	v.SetDefault("DATA_BACKEND", BackendBadger)
	v.SetDefault("BADGER_PATH", "./data/badger")
	v.SetDefault("BADGER_SYNC_WRITES", true)
	v.SetDefault("SQLITE_DB_PATH", "./data/kas.db")

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)

	v.SetDefault("LOG_LEVEL", "info")
}
