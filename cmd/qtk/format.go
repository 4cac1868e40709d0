package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"qtk/internal/integrity"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *CheckResponseCLI:
		return formatCheckHuman(v)
	case *FixResponseCLI:
		return formatFixHuman(v)
	case *SortResponseCLI:
		return formatSortHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatCheckHuman(resp *CheckResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Questionnaire Check - %s\n", resp.Path))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Scanned %d questions\n\n", resp.QuestionsScanned))

	writeWarnings(&b, resp.Warnings)
	writeDuplicates(&b, "question identifiers (questions[*].id)", resp.QuestionDuplicates)
	writeDuplicates(&b, "answer identifiers (possibleAnswers[*].id)", resp.AnswerDuplicates)

	if resp.Clean {
		b.WriteString("Summary: no duplicates found.")
	} else {
		b.WriteString(fmt.Sprintf("Summary: found %d duplicate group(s).", resp.DuplicateGroups))
	}

	return b.String(), nil
}

func formatFixHuman(resp *FixResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Questionnaire Fix - %s\n", resp.Path))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Scanned %d questions\n\n", resp.QuestionsScanned))

	writeWarnings(&b, resp.Warnings)
	writeDuplicates(&b, "question identifiers (questions[*].id)", resp.QuestionDuplicates)
	writeDuplicates(&b, "answer identifiers (possibleAnswers[*].id)", resp.AnswerDuplicates)

	if len(resp.Replacements) > 0 {
		b.WriteString("Replacements (position -> new identifier):\n")
		for _, r := range resp.Replacements {
			b.WriteString(fmt.Sprintf("  %s -> %s\n", r.Position, r.NewID))
		}
		b.WriteString("\n")
	} else {
		b.WriteString("No replacements were necessary.\n\n")
	}

	if resp.BackupPath != "" {
		b.WriteString(fmt.Sprintf("Backup created: %s\n", resp.BackupPath))
	}
	b.WriteString(fmt.Sprintf("Wrote: %s", resp.Output))

	return b.String(), nil
}

func formatSortHuman(resp *SortResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Questionnaire Sort - %s\n", resp.Path))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Sorted possibleAnswers for %d/%d questions (key=%q, order=%s)\n\n",
		resp.QuestionsReordered, resp.QuestionsWithAnswers, resp.Key, resp.Order))

	if resp.BackupPath != "" {
		b.WriteString(fmt.Sprintf("Backup created: %s\n", resp.BackupPath))
	}
	b.WriteString(fmt.Sprintf("Wrote: %s", resp.Output))

	return b.String(), nil
}

func writeWarnings(b *strings.Builder, warnings []integrity.Warning) {
	if len(warnings) == 0 {
		return
	}
	for _, w := range warnings {
		b.WriteString(fmt.Sprintf("⚠ %s at %s\n", w.Message, w.Position))
	}
	b.WriteString("\n")
}

func writeDuplicates(b *strings.Builder, kind string, groups []DuplicateGroupCLI) {
	if len(groups) == 0 {
		b.WriteString(fmt.Sprintf("✓ No duplicates found for %s.\n\n", kind))
		return
	}

	b.WriteString(fmt.Sprintf("✗ Duplicates found for %s:\n", kind))
	for _, g := range groups {
		b.WriteString(fmt.Sprintf("  %s  (count=%d)\n", g.ID, g.Count))
		for _, pos := range g.Positions {
			b.WriteString(fmt.Sprintf("    - %s\n", pos))
		}
	}
	b.WriteString("\n")
}
