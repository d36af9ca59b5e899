package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Run modes
	ModeAnalyze = "analyze"
	ModeExtract = "extract"
	ModeSuggest = "suggest"
	ModeFill    = "fill"
	ModeInspect = "inspect"

	DefaultLogLevel = "info"
)

// Config holds the runtime configuration for a fillwise invocation.
type Config struct {
	// Mode selects the operation to run.
	Mode string

	// CorpusDir is the folder of source documents to extract from.
	CorpusDir string

	// TargetPDF is the form to analyze, suggest values for, or fill.
	TargetPDF string

	// MappingFile is a JSON document of field name to value, consumed
	// by fill mode.
	MappingFile string

	// OutputPath is where the extraction report is written.
	OutputPath string

	// SettingsFile optionally overrides patterns and synonyms.
	SettingsFile string

	// Application configuration
	Version  string
	LogLevel string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:       ModeExtract,
		CorpusDir:  currentDir,
		OutputPath: "fillwise_report.json",
		Version:    "1.0.0",
		LogLevel:   DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and environment variables and
// returns a validated configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths so downstream components always see absolute paths.
	if cfg.CorpusDir != "" {
		if expanded, err := filepath.Abs(cfg.CorpusDir); err == nil {
			cfg.CorpusDir = expanded
		}
	}
	if cfg.TargetPDF != "" {
		if expanded, err := filepath.Abs(cfg.TargetPDF); err == nil {
			cfg.TargetPDF = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("FILLWISE")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.CorpusDir)
	viper.SetDefault("target", cfg.TargetPDF)
	viper.SetDefault("mapping", cfg.MappingFile)
	viper.SetDefault("output", cfg.OutputPath)
	viper.SetDefault("settings", cfg.SettingsFile)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Operation: analyze, extract, suggest, fill, inspect")
	pflag.String("dir", cfg.CorpusDir, "Folder containing source documents and PDFs")
	pflag.String("target", cfg.TargetPDF, "Target PDF form (suggest, fill and inspect modes)")
	pflag.String("mapping", cfg.MappingFile, "JSON file mapping field names to values (fill mode)")
	pflag.String("output", cfg.OutputPath, "Path for the extraction report")
	pflag.String("settings", cfg.SettingsFile, "Settings file overriding patterns and synonyms (YAML or JSON)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("target", pflag.Lookup("target"))
	_ = viper.BindPFlag("mapping", pflag.Lookup("mapping"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("settings", pflag.Lookup("settings"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFillwise - extract facts from documents and fill PDF forms\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --dir=./docs                                   # extract facts into a report\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=analyze --dir=./docs                    # analyze the PDFs in a folder\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=suggest --dir=./docs --target=w9.pdf    # suggest field values\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=fill --target=w9.pdf --mapping=map.json # fill a form\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FILLWISE_MODE      Operation mode\n")
		fmt.Fprintf(os.Stderr, "  FILLWISE_DIR       Document folder\n")
		fmt.Fprintf(os.Stderr, "  FILLWISE_TARGET    Target PDF form\n")
		fmt.Fprintf(os.Stderr, "  FILLWISE_OUTPUT    Report output path\n")
		fmt.Fprintf(os.Stderr, "  FILLWISE_SETTINGS  Settings file\n")
		fmt.Fprintf(os.Stderr, "  FILLWISE_LOGLEVEL  Log level\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.CorpusDir = viper.GetString("dir")
	cfg.TargetPDF = viper.GetString("target")
	cfg.MappingFile = viper.GetString("mapping")
	cfg.OutputPath = viper.GetString("output")
	cfg.SettingsFile = viper.GetString("settings")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validModes := map[string]bool{
		ModeAnalyze: true,
		ModeExtract: true,
		ModeSuggest: true,
		ModeFill:    true,
		ModeInspect: true,
	}
	if !validModes[c.Mode] {
		return fmt.Errorf("invalid mode: %s (must be one of: analyze, extract, suggest, fill, inspect)", c.Mode)
	}

	switch c.Mode {
	case ModeAnalyze, ModeExtract, ModeSuggest:
		if c.CorpusDir == "" {
			return errors.New("document folder cannot be empty")
		}
	}

	switch c.Mode {
	case ModeSuggest, ModeFill, ModeInspect:
		if c.TargetPDF == "" {
			return fmt.Errorf("%s mode requires a target PDF", c.Mode)
		}
	}

	if c.Mode == ModeFill && c.MappingFile == "" {
		return errors.New("fill mode requires a mapping file")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, CorpusDir: %s, TargetPDF: %s, OutputPath: %s, LogLevel: %s}",
		c.Mode, c.CorpusDir, c.TargetPDF, c.OutputPath, c.LogLevel)
}
