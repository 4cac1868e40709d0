package main

import (
	"fmt"
	"os"

	"qtk/internal/config"
	"qtk/internal/document"
	"qtk/internal/errors"
	"qtk/internal/integrity"
	"qtk/internal/logging"
)

// loadConfig loads .qtk/config.json from the working directory, falling
// back to defaults when the file is absent or unreadable.
func loadConfig() *config.Config {
	wd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig()
	}
	cfg, err := config.LoadConfig(wd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

// newLogger creates a logger whose format follows the output format flag
// and whose level comes from configuration
func newLogger(format string, cfg *config.Config) *logging.Logger {
	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	level := logging.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		level = logging.LogLevel(cfg.Logging.Level)
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  level,
	})
}

// mustLoadDocument loads the document at path or exits with the fatal
// status
func mustLoadDocument(path string) *document.Document {
	doc, err := document.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitFatal)
	}
	return doc
}

// writeOptions builds WriteOptions from the command flags and config
func writeOptions(sourcePath string, noBackup bool, cfg *config.Config) document.WriteOptions {
	opts := document.WriteOptions{
		SourcePath: sourcePath,
		NoBackup:   noBackup,
	}
	if cfg != nil {
		if !cfg.Backup.Enabled {
			opts.NoBackup = true
		}
		opts.BackupSuffix = cfg.Backup.Suffix
	}
	return opts
}

// logWarnings reports every missing-identifier warning of a scan
func logWarnings(logger *logging.Logger, warnings []integrity.Warning) {
	for _, w := range warnings {
		logger.Warn(w.Message, map[string]interface{}{
			"position": w.Position,
		})
	}
}
