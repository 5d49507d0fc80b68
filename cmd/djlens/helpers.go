package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"djlens/internal/analyzer"
	"djlens/internal/config"
	"djlens/internal/logging"
)

var (
	analyzerOnce   sync.Once
	sharedAnalyzer *analyzer.Analyzer
	analyzerErr    error
)

// getAnalyzer returns a shared Analyzer instance, lazily initialized.
func getAnalyzer(projectRoot string, logger *logging.Logger) (*analyzer.Analyzer, error) {
	analyzerOnce.Do(func() {
		cfg, err := config.LoadConfig(projectRoot)
		if err != nil {
			logger.Warn("Failed to load config, using defaults", map[string]interface{}{
				"error": err.Error(),
			})
			cfg = config.DefaultConfig()
		}
		if err := cfg.Validate(); err != nil {
			analyzerErr = err
			return
		}

		sharedAnalyzer, analyzerErr = analyzer.New(projectRoot, cfg, logger)
	})

	return sharedAnalyzer, analyzerErr
}

// mustGetAnalyzer returns the shared Analyzer or exits on error.
func mustGetAnalyzer(projectRoot string, logger *logging.Logger) *analyzer.Analyzer {
	a, err := getAnalyzer(projectRoot, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing analyzer: %v\n", err)
		os.Exit(1)
	}
	return a
}

// getProjectRoot returns the project root directory.
func getProjectRoot() (string, error) {
	return os.Getwd()
}

// mustGetProjectRoot returns the project root or exits on error.
func mustGetProjectRoot() string {
	root, err := getProjectRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return root
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}

// newLogger creates a logger with the specified format.
func newLogger(format string) *logging.Logger {
	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logging.InfoLevel,
	})
}
