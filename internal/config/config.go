package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete qtk configuration
type Config struct {
	Version      int    `json:"version" mapstructure:"version"`
	DocumentPath string `json:"documentPath" mapstructure:"documentPath"`

	Sort    SortConfig    `json:"sort" mapstructure:"sort"`
	Backup  BackupConfig  `json:"backup" mapstructure:"backup"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// SortConfig contains answer-sorting defaults
type SortConfig struct {
	Key        string `json:"key" mapstructure:"key"`
	Descending bool   `json:"descending" mapstructure:"descending"`
}

// BackupConfig controls backup-file creation for in-place writes
type BackupConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Suffix  string `json:"suffix" mapstructure:"suffix"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:      1,
		DocumentPath: "./data/questions.json",
		Sort: SortConfig{
			Key:        "answer",
			Descending: false,
		},
		Backup: BackupConfig{
			Enabled: true,
			Suffix:  ".bak",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <workDir>/.qtk/config.json.
// A missing config file is not an error; defaults apply.
func LoadConfig(workDir string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("documentPath", defaults.DocumentPath)
	v.SetDefault("sort.key", defaults.Sort.Key)
	v.SetDefault("sort.descending", defaults.Sort.Descending)
	v.SetDefault("backup.enabled", defaults.Backup.Enabled)
	v.SetDefault("backup.suffix", defaults.Backup.Suffix)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(workDir, ".qtk"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to <workDir>/.qtk/config.json
func (c *Config) Save(workDir string) error {
	configDir := filepath.Join(workDir, ".qtk")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Sort.Key == "" {
		return fmt.Errorf("sort.key must not be empty")
	}
	if c.Backup.Enabled && c.Backup.Suffix == "" {
		return fmt.Errorf("backup.suffix must not be empty when backups are enabled")
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return fmt.Errorf("logging.format must be 'human' or 'json', got %q", c.Logging.Format)
	}
	return nil
}
