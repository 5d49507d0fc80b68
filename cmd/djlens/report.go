package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reportFormat string
)

// ExcludedFileCLI is one over-budget file in the CLI response.
type ExcludedFileCLI struct {
	Path          string `json:"path" yaml:"path"`
	TokenEstimate int    `json:"tokenEstimate" yaml:"tokenEstimate"`
}

// ReportResponseCLI is the CLI response for the report command.
type ReportResponseCLI struct {
	RunID          string            `json:"runId" yaml:"runId"`
	StateID        string            `json:"stateId" yaml:"stateId"`
	ReportPath     string            `json:"reportPath" yaml:"reportPath"`
	FilesTotal     int               `json:"filesTotal" yaml:"filesTotal"`
	FilesIncluded  int               `json:"filesIncluded" yaml:"filesIncluded"`
	TokensIncluded int               `json:"tokensIncluded" yaml:"tokensIncluded"`
	BudgetTokens   int               `json:"budgetTokens" yaml:"budgetTokens"`
	BudgetUsedPct  float64           `json:"budgetUsedPct" yaml:"budgetUsedPct"`
	Excluded       []ExcludedFileCLI `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Scan the project and write a token-budgeted codebase report",
	Long: `Scan the project tree, score every matched file, select the highest
scoring files that fit in the token budget and write the codebase report
into the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(reportFormat)
		root := mustGetProjectRoot()

		a := mustGetAnalyzer(root, logger)
		defer a.Close()

		run, err := a.Run(newContext())
		if err != nil {
			return err
		}

		resp := &ReportResponseCLI{
			RunID:          run.RunID,
			StateID:        run.StateID,
			ReportPath:     run.ReportPath,
			FilesTotal:     len(run.Inventory),
			FilesIncluded:  len(run.Selection.Selected),
			TokensIncluded: run.Selection.TotalTokens,
			BudgetTokens:   run.Selection.BudgetTokens,
			BudgetUsedPct:  run.Selection.BudgetUsedPercent(),
		}
		for _, f := range run.Selection.Excluded {
			resp.Excluded = append(resp.Excluded, ExcludedFileCLI{
				Path:          f.Path,
				TokenEstimate: f.TokenEstimate,
			})
		}

		output, err := FormatResponse(resp, OutputFormat(reportFormat))
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: json, yaml, or human")
	rootCmd.AddCommand(reportCmd)
}
