package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the igaio configuration file
// (~/.config/igaio/config.yaml). Optional numeric fields are pointers so
// "not set" stays distinguishable from zero.
type Config struct {
	// Wire profile defaults
	Precision string `yaml:"precision"`
	Scalar    string `yaml:"scalar"`
	Indices   string `yaml:"indices"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Export
	Refine *int64 `yaml:"refine"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "igaio", "config.yaml")
}

// applyProfileConfig applies config file defaults to the shared profile
// and logging flags when the corresponding CLI flag was not set.
func applyProfileConfig(c *cli.Command, cfg Config) {
	if cfg.Precision != "" && !c.IsSet("precision") {
		precisionName = cfg.Precision
	}
	if cfg.Scalar != "" && !c.IsSet("scalar") {
		scalarName = cfg.Scalar
	}
	if cfg.Indices != "" && !c.IsSet("indices") {
		indicesName = cfg.Indices
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyExportConfig applies config file defaults to vtk export variables.
func applyExportConfig(c *cli.Command, cfg Config, refine *int64) {
	if cfg.Refine != nil && !c.IsSet("refine") {
		*refine = *cfg.Refine
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or fails to parse.
func LoadConfig() Config {
	path := configPath()
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
