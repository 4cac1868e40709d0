package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qtk/internal/errors"
	"qtk/internal/integrity"
)

var (
	fixPath     string
	fixOutput   string
	fixNoBackup bool
	fixFormat   string
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Repair duplicate identifiers with fresh UUIDs",
	Long: `Generate a fresh UUID for every duplicate identifier occurrence after the
first. The first occurrence of each duplicate group is kept as-is so that
external references to it stay valid. New identifiers are guaranteed unique
against every identifier in the document, both classes included, and against
each other.

By default the document is rewritten in place with a .bak backup. Use
--output to write elsewhere, or --no-backup to suppress the backup.`,
	Run: runFix,
}

func init() {
	fixCmd.Flags().StringVar(&fixPath, "path", "", "Path to the questionnaire JSON (default from config)")
	fixCmd.Flags().StringVar(&fixOutput, "output", "", "Write the repaired document to this path instead of in place")
	fixCmd.Flags().BoolVar(&fixNoBackup, "no-backup", false, "Do not create a .bak backup for in-place writes")
	fixCmd.Flags().StringVar(&fixFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(fixFormat, cfg)
	path := resolveDocumentPath(fixPath, cfg)

	doc := mustLoadDocument(path)
	scan := integrity.BuildIndex(doc)
	logWarnings(logger, scan.Warnings)

	repairer := integrity.NewRepairer(scan.AllIDs, nil)
	replacements, err := repairer.Repair(doc, scan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitFatal)
	}

	outPath := fixOutput
	if outPath == "" {
		outPath = path
	}
	res, err := doc.WriteFile(outPath, writeOptions(path, fixNoBackup, cfg))
	if res != nil && res.BackupErr != nil {
		logger.Warn("Could not create backup", map[string]interface{}{
			"error": res.BackupErr.Error(),
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitFatal)
	}

	resp := convertFixResponse(path, doc.QuestionCount(), scan, replacements, res.Path, res.BackupPath)

	output, err := FormatResponse(resp, OutputFormat(fixFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(errors.ExitFatal)
	}
	fmt.Println(output)
}

// FixResponseCLI is the result of a repair run
type FixResponseCLI struct {
	Path               string                  `json:"path"`
	QuestionsScanned   int                     `json:"questionsScanned"`
	Warnings           []integrity.Warning     `json:"warnings,omitempty"`
	QuestionDuplicates []DuplicateGroupCLI     `json:"questionDuplicates"`
	AnswerDuplicates   []DuplicateGroupCLI     `json:"answerDuplicates"`
	DuplicateGroups    int                     `json:"duplicateGroups"`
	Replacements       []integrity.Replacement `json:"replacements"`
	Output             string                  `json:"output"`
	BackupPath         string                  `json:"backupPath,omitempty"`
}

func convertFixResponse(path string, questions int, scan *integrity.Scan,
	replacements []integrity.Replacement, outPath, backupPath string) *FixResponseCLI {
	return &FixResponseCLI{
		Path:               path,
		QuestionsScanned:   questions,
		Warnings:           scan.Warnings,
		QuestionDuplicates: convertGroups(scan.Questions.Duplicates()),
		AnswerDuplicates:   convertGroups(scan.Answers.Duplicates()),
		DuplicateGroups:    scan.DuplicateGroupCount(),
		Replacements:       replacements,
		Output:             outPath,
		BackupPath:         backupPath,
	}
}
