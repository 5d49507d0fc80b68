package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	analyzeFormat string
	analyzeDir    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze --dir <directory>",
	Short: "Write a structure-and-contents analysis of a single directory",
	Long: `Walk one directory and write an analysis artifact containing its tree
structure and the contents of every matched file. Unlike the full report this
pass has no token budget; it is meant for inspecting one app at a time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(analyzeFormat)
		root := mustGetProjectRoot()

		a := mustGetAnalyzer(root, logger)
		defer a.Close()

		path, err := a.AnalyzeDirectory(analyzeDir)
		if err != nil {
			return err
		}

		logger.Info("Directory analysis written", map[string]interface{}{
			"directory": analyzeDir,
			"path":      path,
		})
		fmt.Println(path)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDir, "dir", "", "Directory to analyze")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "Log format: json or human")
	_ = analyzeCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(analyzeCmd)
}
