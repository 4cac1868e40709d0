package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qtk/internal/errors"
	"qtk/internal/integrity"
)

var (
	checkPath   string
	checkFormat string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scan a questionnaire for duplicate identifiers",
	Long: `Scan the questions[*].id and questions[*].possibleAnswers[*].id fields for
duplicate values. Detection only; the document is never modified.

Exit status: 0 when clean, 1 when duplicates were found, 2 on a format error.`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkPath, "path", "", "Path to the questionnaire JSON (default from config)")
	checkCmd.Flags().StringVar(&checkFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(checkFormat, cfg)
	path := resolveDocumentPath(checkPath, cfg)

	doc := mustLoadDocument(path)
	scan := integrity.BuildIndex(doc)
	logWarnings(logger, scan.Warnings)

	resp := convertCheckResponse(path, doc.QuestionCount(), scan)

	output, err := FormatResponse(resp, OutputFormat(checkFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(errors.ExitFatal)
	}
	fmt.Println(output)

	if !resp.Clean {
		os.Exit(errors.ExitDuplicatesFound)
	}
}

// CheckResponseCLI is the result of a detection-only scan
type CheckResponseCLI struct {
	Path               string              `json:"path"`
	QuestionsScanned   int                 `json:"questionsScanned"`
	Warnings           []integrity.Warning `json:"warnings,omitempty"`
	QuestionDuplicates []DuplicateGroupCLI `json:"questionDuplicates"`
	AnswerDuplicates   []DuplicateGroupCLI `json:"answerDuplicates"`
	DuplicateGroups    int                 `json:"duplicateGroups"`
	Clean              bool                `json:"clean"`
}

// DuplicateGroupCLI describes one duplicate identifier value and every
// position it occurs at
type DuplicateGroupCLI struct {
	ID        string   `json:"id"`
	Count     int      `json:"count"`
	Positions []string `json:"positions"`
}

func convertCheckResponse(path string, questions int, scan *integrity.Scan) *CheckResponseCLI {
	return &CheckResponseCLI{
		Path:               path,
		QuestionsScanned:   questions,
		Warnings:           scan.Warnings,
		QuestionDuplicates: convertGroups(scan.Questions.Duplicates()),
		AnswerDuplicates:   convertGroups(scan.Answers.Duplicates()),
		DuplicateGroups:    scan.DuplicateGroupCount(),
		Clean:              scan.Clean(),
	}
}

func convertGroups(groups []integrity.DuplicateGroup) []DuplicateGroupCLI {
	out := make([]DuplicateGroupCLI, 0, len(groups))
	for _, g := range groups {
		positions := make([]string, 0, len(g.Occurrences))
		for _, occ := range g.Occurrences {
			positions = append(positions, occ.Position())
		}
		out = append(out, DuplicateGroupCLI{
			ID:        g.ID,
			Count:     len(g.Occurrences),
			Positions: positions,
		})
	}
	return out
}
