package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"djlens/internal/inventory"
)

var structureFormat string

// StructureResponseCLI is the CLI response for the structure command.
type StructureResponseCLI struct {
	ProjectRoot string              `json:"projectRoot" yaml:"projectRoot"`
	TotalFiles  int                 `json:"totalFiles" yaml:"totalFiles"`
	Order       []string            `json:"-" yaml:"-"`
	FilesByType map[string][]string `json:"filesByType" yaml:"filesByType"`
}

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Show the scanned project inventory grouped by file role",
	Long: `Scan the project tree and print the matched files grouped by their
Django role (models, views, templates, forms, urls, static, other) without
writing any report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(structureFormat)
		root := mustGetProjectRoot()

		a := mustGetAnalyzer(root, logger)
		defer a.Close()

		files, err := a.Scan()
		if err != nil {
			return err
		}

		byRole := inventory.Categorize(files)
		resp := &StructureResponseCLI{
			ProjectRoot: root,
			TotalFiles:  len(files),
			FilesByType: make(map[string][]string, len(byRole)),
		}
		for _, role := range inventory.Roles() {
			resp.Order = append(resp.Order, string(role))
			resp.FilesByType[string(role)] = byRole[role]
		}

		output, err := FormatResponse(resp, OutputFormat(structureFormat))
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	},
}

func init() {
	structureCmd.Flags().StringVar(&structureFormat, "format", "human", "Output format: json, yaml, or human")
	rootCmd.AddCommand(structureCmd)
}
