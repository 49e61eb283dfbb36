package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the prckit configuration file
// (~/.config/prckit/config.yaml). Boolean fields are pointers so
// "not set" can be told apart from false.
type Config struct {
	// Extraction defaults
	OutputDir string `yaml:"output_dir"`
	ByType    *bool  `yaml:"by_type"`
	Strict    *bool  `yaml:"strict"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
	ArchivesDir   string `yaml:"archives_dir"`
	JobsDir       string `yaml:"jobs_dir"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "prckit", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or fails to parse.
func LoadConfig() Config {
	return loadConfigFrom(configPath())
}

func loadConfigFrom(path string) Config {
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyLoggingConfig applies config file defaults to the logging
// variables when the corresponding CLI flag was not explicitly set.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyExtractConfig applies config file defaults to extract command
// variables.
func applyExtractConfig(c *cli.Command, cfg Config, byType, strict *bool) {
	if cfg.ByType != nil && !c.IsSet("by-type") {
		*byType = *cfg.ByType
	}
	if cfg.Strict != nil && !c.IsSet("strict") {
		*strict = *cfg.Strict
	}
}

// applyServeConfig applies config file defaults to serve command
// variables.
func applyServeConfig(c *cli.Command, cfg Config, addr, root, jobs *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.ArchivesDir != "" && !c.IsSet("root") {
		*root = cfg.ArchivesDir
	}
	if cfg.JobsDir != "" && !c.IsSet("jobs") {
		*jobs = cfg.JobsDir
	}
}
