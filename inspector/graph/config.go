package graph

import (
	"context"
	"fmt"
	"github.com/BurntSushi/toml"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
	"path"
	"strings"
)

const (
	DefaultExtension       = ".ipf"
	DefaultFunctionPattern = `^Function\s+(\w+)`
	DefaultIncludePattern  = `^#include\s+"(.+)"`
	DefaultIgnoreFile      = ".igortreeignore"
)

// Config holds scanning and discovery options
type Config struct {
	Extension       string `yaml:"extension" toml:"extension"`             // Procedure file extension, with leading dot
	FunctionPattern string `yaml:"functionPattern" toml:"function_pattern"` // First capture group is the function name
	IncludePattern  string `yaml:"includePattern" toml:"include_pattern"`   // First capture group is the included procedure
	UserProcedures  string `yaml:"userProcedures" toml:"user_procedures"`   // Primary root, also used to resolve includes
	IgorProcedures  string `yaml:"igorProcedures" toml:"igor_procedures"`   // Secondary root, discovery only
	IgnoreFile      string `yaml:"ignoreFile" toml:"ignore_file"`           // gitignore-style file read from each root
	IgorVersion     int    `yaml:"igorVersion" toml:"igor_version"`         // 0 picks the newest installed version
}

// DefaultConfig returns config with Igor Pro defaults
func DefaultConfig() *Config {
	return &Config{
		Extension:       DefaultExtension,
		FunctionPattern: DefaultFunctionPattern,
		IncludePattern:  DefaultIncludePattern,
		IgnoreFile:      DefaultIgnoreFile,
	}
}

// Init fills empty fields with defaults
func (c *Config) Init() {
	defaults := DefaultConfig()
	if c.Extension == "" {
		c.Extension = defaults.Extension
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	if c.FunctionPattern == "" {
		c.FunctionPattern = defaults.FunctionPattern
	}
	if c.IncludePattern == "" {
		c.IncludePattern = defaults.IncludePattern
	}
	if c.IgnoreFile == "" {
		c.IgnoreFile = defaults.IgnoreFile
	}
}

// LoadConfig reads yaml or toml config, the format is picked by extension
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
	}
	config := DefaultConfig()
	switch ext := strings.ToLower(path.Ext(URL)); ext {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
		}
	case ".toml":
		if _, err = toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	config.Init()
	return config, nil
}
