package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Storage driver names accepted in configuration.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config holds all runtime settings. Values come from environment variables,
// optionally seeded from a .env file.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`

	// HistorySize bounds the view history; 0 or less means unbounded.
	HistorySize int `mapstructure:"HISTORY_SIZE"`

	// StorageDriver selects the snapshot backend: memory, file or sqlite.
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	StoragePath   string `mapstructure:"STORAGE_PATH"`

	AuthEnabled  bool   `mapstructure:"AUTH_ENABLED"`
	AuthUsername string `mapstructure:"AUTH_USERNAME"`
	AuthPassword string `mapstructure:"AUTH_PASSWORD"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`

	LogFile string `mapstructure:"LOG_FILE"`
}

// Load reads configuration from the environment and from an optional .env
// file in the given directory. A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("HISTORY_SIZE", 0)
	v.SetDefault("STORAGE_DRIVER", DriverFile)
	v.SetDefault("STORAGE_PATH", "tasks.csv")
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("AUTH_USERNAME", "admin")
	v.SetDefault("AUTH_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "development-insecure-secret-change-me")
	v.SetDefault("LOG_FILE", "")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.StorageDriver != DriverMemory && c.StoragePath == "" {
		return fmt.Errorf("storage driver %q requires STORAGE_PATH", c.StorageDriver)
	}
	if c.AuthEnabled && c.AuthPassword == "" {
		return fmt.Errorf("AUTH_ENABLED requires AUTH_PASSWORD")
	}
	return nil
}
