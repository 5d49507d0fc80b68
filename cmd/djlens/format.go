package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatYAML(resp interface{}) (string, error) {
	data, err := yaml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *ReportResponseCLI:
		return formatReportHuman(v)
	case *StructureResponseCLI:
		return formatStructureHuman(v)
	case *HistoryResponseCLI:
		return formatHistoryHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatReportHuman(resp *ReportResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("djlens Report\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Run: %s\n", resp.RunID))
	b.WriteString(fmt.Sprintf("State: %s\n", resp.StateID))
	b.WriteString(fmt.Sprintf("Report: %s\n\n", resp.ReportPath))

	b.WriteString(fmt.Sprintf("Files scanned: %d\n", resp.FilesTotal))
	b.WriteString(fmt.Sprintf("Files included: %d\n", resp.FilesIncluded))
	b.WriteString(fmt.Sprintf("Tokens: %d / %d (%.1f%%)\n",
		resp.TokensIncluded, resp.BudgetTokens, resp.BudgetUsedPct))

	if len(resp.Excluded) > 0 {
		b.WriteString(fmt.Sprintf("\nExcluded (%d):\n", len(resp.Excluded)))
		for _, e := range resp.Excluded {
			b.WriteString(fmt.Sprintf("  - %s (%d tokens)\n", e.Path, e.TokenEstimate))
		}
	}

	return b.String(), nil
}

func formatStructureHuman(resp *StructureResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Project Structure\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Root: %s\n", resp.ProjectRoot))
	b.WriteString(fmt.Sprintf("Files: %d\n\n", resp.TotalFiles))

	for _, role := range resp.Order {
		paths := resp.FilesByType[role]
		b.WriteString(fmt.Sprintf("%s (%d):\n", role, len(paths)))
		for _, p := range paths {
			b.WriteString(fmt.Sprintf("  %s\n", p))
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func formatHistoryHuman(resp *HistoryResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Scan History\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.Runs) == 0 {
		b.WriteString("No recorded runs.\n")
		return b.String(), nil
	}

	for _, run := range resp.Runs {
		b.WriteString(fmt.Sprintf("%s  %s\n", run.CreatedAt, run.ID))
		b.WriteString(fmt.Sprintf("  files %d/%d  tokens %d/%d (%.1f%%)  state %s\n",
			run.FilesIncluded, run.FilesTotal,
			run.TokensIncluded, run.BudgetTokens, run.BudgetUsedPct, run.StateID))
	}

	return b.String(), nil
}
