package main

import (
	"os"

	"qtk/internal/config"
	"qtk/internal/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "qtk",
	Short: "qtk - questionnaire integrity toolkit",
	Long: `qtk maintains referential integrity of identifier fields in questionnaire
JSON documents. It detects duplicate identifiers at the question and answer
level, repairs them with freshly generated UUIDs while keeping the first
occurrence of each duplicate untouched, and sorts answer lists by a
configurable field.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("qtk version {{.Version}}\n")
}

// resolveDocumentPath determines the document path from CLI flag, env var,
// and config. Precedence: --path flag > QTK_PATH env var > config.json
// documentPath > built-in default.
func resolveDocumentPath(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("QTK_PATH"); env != "" {
		return env
	}
	if cfg != nil && cfg.DocumentPath != "" {
		return cfg.DocumentPath
	}
	return config.DefaultConfig().DocumentPath
}

// resolveSortKey determines the sort key with the same precedence chain
func resolveSortKey(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("QTK_SORT_KEY"); env != "" {
		return env
	}
	if cfg != nil && cfg.Sort.Key != "" {
		return cfg.Sort.Key
	}
	return config.DefaultConfig().Sort.Key
}
