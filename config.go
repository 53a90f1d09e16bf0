package portal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/portal-it/portal/db"
	"github.com/spf13/viper"
)

// Config holds the backend settings persisted in config.yaml inside the config directory.
type Config struct {
	viper        *viper.Viper
	DataDir      string `mapstructure:"data_dir"`      // Directory holding the store
	DBName       string `mapstructure:"db_name"`       // Store file name inside DataDir
	LogLevel     string `mapstructure:"log_level"`     // debug, info, warn or error
	BackupIndent string `mapstructure:"backup_indent"` // Indentation of exported JSON
}

// LoadConfig reads config.yaml from configDir, creating the directory and a
// file with defaults when they do not exist yet.
func LoadConfig(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config dir %s: %w", configDir, err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetDefault("data_dir", configDir)
	v.SetDefault("db_name", db.DefaultName)
	v.SetDefault("log_level", "info")
	v.SetDefault("backup_indent", "  ")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file : %w", err)
		}
		if err := v.SafeWriteConfig(); err != nil {
			return nil, fmt.Errorf("writing config file : %w", err)
		}
	}

	cfg := &Config{viper: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	return cfg, nil
}

// DatabasePath returns the location of the store file.
func (cfg *Config) DatabasePath() string {
	return filepath.Join(cfg.DataDir, cfg.DBName)
}

// SetDataDir moves the store location and persists it. The new location takes
// effect the next time the database is opened.
func (cfg *Config) SetDataDir(dir string) error {
	if cfg.viper == nil {
		return errors.New("config was not loaded from a directory")
	}
	cfg.viper.Set("data_dir", dir)
	if err := cfg.viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	cfg.DataDir = dir
	return nil
}

// Level maps LogLevel to a slog level, defaulting to info.
func (cfg *Config) Level() slog.Level {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
