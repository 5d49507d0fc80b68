package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	logFormat string
	logLimit  int
)

// HistoryRunCLI is one recorded run in the CLI response.
type HistoryRunCLI struct {
	ID             string  `json:"id" yaml:"id"`
	CreatedAt      string  `json:"createdAt" yaml:"createdAt"`
	StateID        string  `json:"stateId" yaml:"stateId"`
	FilesTotal     int     `json:"filesTotal" yaml:"filesTotal"`
	FilesIncluded  int     `json:"filesIncluded" yaml:"filesIncluded"`
	TokensIncluded int     `json:"tokensIncluded" yaml:"tokensIncluded"`
	BudgetTokens   int     `json:"budgetTokens" yaml:"budgetTokens"`
	BudgetUsedPct  float64 `json:"budgetUsedPct" yaml:"budgetUsedPct"`
}

// HistoryResponseCLI is the CLI response for the log command.
type HistoryResponseCLI struct {
	Runs []HistoryRunCLI `json:"runs" yaml:"runs"`
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recorded scan runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(logFormat)
		root := mustGetProjectRoot()

		a := mustGetAnalyzer(root, logger)
		defer a.Close()

		runs, err := a.RecentRuns(newContext(), logLimit)
		if err != nil {
			return err
		}

		resp := &HistoryResponseCLI{Runs: []HistoryRunCLI{}}
		for _, run := range runs {
			resp.Runs = append(resp.Runs, HistoryRunCLI{
				ID:             run.ID,
				CreatedAt:      run.CreatedAt.UTC().Format(time.RFC3339),
				StateID:        run.StateID,
				FilesTotal:     run.FilesTotal,
				FilesIncluded:  run.FilesIncluded,
				TokensIncluded: run.TokensIncluded,
				BudgetTokens:   run.BudgetTokens,
				BudgetUsedPct:  run.BudgetUsedPct,
			})
		}

		output, err := FormatResponse(resp, OutputFormat(logFormat))
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logFormat, "format", "human", "Output format: json, yaml, or human")
	logCmd.Flags().IntVar(&logLimit, "limit", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(logCmd)
}
