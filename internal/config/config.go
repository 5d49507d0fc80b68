// Package config loads and persists djlens configuration from the
// .djlens directory of a project.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// StateDirName is the per-project state directory.
const StateDirName = ".djlens"

// Config represents the complete djlens configuration.
type Config struct {
	Version   int    `json:"version" mapstructure:"version" toml:"version"`
	OutputDir string `json:"outputDir" mapstructure:"outputDir" toml:"output_dir"`

	Budget  BudgetConfig  `json:"budget" mapstructure:"budget" toml:"budget"`
	Scan    ScanConfig    `json:"scan" mapstructure:"scan" toml:"scan"`
	Watch   WatchConfig   `json:"watch" mapstructure:"watch" toml:"watch"`
	Report  ReportConfig  `json:"report" mapstructure:"report" toml:"report"`
	History HistoryConfig `json:"history" mapstructure:"history" toml:"history"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging" toml:"logging"`
}

// BudgetConfig bounds the report size.
type BudgetConfig struct {
	MaxTokens int `json:"maxTokens" mapstructure:"maxTokens" toml:"max_tokens"`
}

// ScanConfig controls inventory traversal.
type ScanConfig struct {
	// ExcludeDirs extends the built-in directory exclusion set.
	ExcludeDirs []string `json:"excludeDirs" mapstructure:"excludeDirs" toml:"exclude_dirs"`
	// IncludeOnly restricts scanning to the listed subtrees when non-empty.
	IncludeOnly []string `json:"includeOnly" mapstructure:"includeOnly" toml:"include_only"`
}

// WatchConfig controls the filesystem watcher.
type WatchConfig struct {
	CooldownSeconds int      `json:"cooldownSeconds" mapstructure:"cooldownSeconds" toml:"cooldown_seconds"`
	Extensions      []string `json:"extensions" mapstructure:"extensions" toml:"extensions"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	Compress bool `json:"compress" mapstructure:"compress" toml:"compress"`
}

// HistoryConfig controls the scan-run history store.
type HistoryConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled" toml:"enabled"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format" toml:"format"`
	Level  string `json:"level" mapstructure:"level" toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version:   1,
		OutputDir: "print_codebase",
		Budget: BudgetConfig{
			MaxTokens: 50_000,
		},
		Scan: ScanConfig{
			ExcludeDirs: []string{},
			IncludeOnly: []string{},
		},
		Watch: WatchConfig{
			CooldownSeconds: 5,
			Extensions:      []string{".py", ".html", ".js", ".css"},
		},
		Report: ReportConfig{
			Compress: false,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .djlens/config.json, then applies any
// .djlens/config.toml override on top. Missing files fall back to defaults.
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("outputDir", "print_codebase")
	v.SetDefault("budget.maxTokens", 50_000)
	v.SetDefault("watch.cooldownSeconds", 5)
	v.SetDefault("watch.extensions", []string{".py", ".html", ".js", ".css"})
	v.SetDefault("history.enabled", true)
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, StateDirName))

	cfg := DefaultConfig()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	} else {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := applyTOMLOverride(projectRoot, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyTOMLOverride layers .djlens/config.toml over cfg when present.
func applyTOMLOverride(projectRoot string, cfg *Config) error {
	tomlPath := filepath.Join(projectRoot, StateDirName, "config.toml")
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		return nil
	}
	_, err := toml.DecodeFile(tomlPath, cfg)
	return err
}

// Save writes the configuration to .djlens/config.json.
func (c *Config) Save(projectRoot string) error {
	stateDir := filepath.Join(projectRoot, StateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(stateDir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Budget.MaxTokens < 0 {
		return &ConfigError{Field: "budget.maxTokens", Message: "must not be negative"}
	}
	if c.Watch.CooldownSeconds < 0 {
		return &ConfigError{Field: "watch.cooldownSeconds", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
