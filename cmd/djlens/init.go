package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"djlens/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .djlens state directory with a default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustGetProjectRoot()

		cfgPath := filepath.Join(root, config.StateDirName, "config.json")
		if _, err := os.Stat(cfgPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
		}

		cfg := config.DefaultConfig()
		if err := cfg.Save(root); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("Initialized %s\n", cfgPath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration")
	rootCmd.AddCommand(initCmd)
}
