package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configDir      = ".ilog"
	configFileName = "config"
)

// Config represents the CLI configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	DeviceID string         `mapstructure:"device_id"`
}

// APIConfig represents backend connection configuration.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// CalendarConfig represents calendar rendering configuration.
type CalendarConfig struct {
	// HourHeight is the day-view rows per hour used to position event blocks.
	HourHeight int `mapstructure:"hour_height"`
}

// Dir returns the path of the config directory (~/.ilog).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}

// Load loads configuration from ~/.ilog/config.yaml, environment variables,
// and an optional .env file. A missing config file is not an error; defaults
// apply and a device ID is generated and persisted on first load.
func Load() (*Config, error) {
	// Best effort; a missing .env is normal.
	_ = godotenv.Load()

	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AddConfigPath(".")

	v.SetDefault("api.base_url", getEnv("ILOG_API_BASE_URL", "https://api.ilog.app"))
	v.SetDefault("api.timeout_seconds", 5)
	v.SetDefault("calendar.hour_height", 2)

	v.SetEnvPrefix("ILOG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.DeviceID == "" {
		cfg.DeviceID = uuid.NewString()
		v.Set("device_id", cfg.DeviceID)
		// Best effort persist; a read-only home dir should not block startup.
		if err := os.MkdirAll(dir, 0755); err == nil {
			_ = v.WriteConfigAs(filepath.Join(dir, configFileName+".yaml"))
		}
	}

	return &cfg, nil
}

// Save writes the configuration back to ~/.ilog/config.yaml.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	v := viper.New()
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout_seconds", cfg.API.TimeoutSeconds)
	v.Set("calendar.hour_height", cfg.Calendar.HourHeight)
	v.Set("device_id", cfg.DeviceID)

	return v.WriteConfigAs(filepath.Join(dir, configFileName+".yaml"))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
