package main

import (
	"djlens/internal/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "djlens",
	Short: "djlens - token-budgeted Django project context reporter",
	Long: `djlens scans a Django project tree, scores files by relevance
(recency, type priority, correlation to recently changed files) and emits a
single bounded-size report of file contents suitable for a context-limited
consumer such as a language-model prompt.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("djlens version {{.Version}}\n")
}
