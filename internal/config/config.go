// Package config carries the pipeline configuration. The zero-file case is
// the normal one: Default() holds the fixed constants the release pipeline
// runs with, and a YAML file only overrides them for forks and tests.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Panquesito7/julec-ir/internal/target"
)

// EnvToken names the environment variable carrying the push token for the
// destination repository. Empty means anonymous (SSH agent or public push).
const EnvToken = "JULEC_IR_TOKEN"

// Config represents the pipeline configuration.
type Config struct {
	Compiler    CompilerConfig `yaml:"compiler"`
	Rewrite     RewriteConfig  `yaml:"rewrite"`
	Destination DestConfig     `yaml:"destination"`
	StagingDir  string         `yaml:"staging_dir"`
	Targets     target.Matrix  `yaml:"targets"`
}

// CompilerConfig describes the julec invocation.
type CompilerConfig struct {
	Bin     string `yaml:"bin"`     // compiler binary name or path
	Package string `yaml:"package"` // input package passed to the compiler
	Output  string `yaml:"output"`  // generically named file the compiler emits into the staging dir
}

// RewriteConfig describes the include normalization applied to generated files.
type RewriteConfig struct {
	// Marker is the path segment separating the internal build root from the
	// portable remainder of a quoted include path.
	Marker string `yaml:"marker"`
}

// DestConfig describes the distribution repository the artifacts are pushed to.
type DestConfig struct {
	URL         string `yaml:"url"`
	Dir         string `yaml:"dir"`          // local clone directory name
	SrcDir      string `yaml:"src_dir"`      // subtree replaced wholesale with the artifacts
	DocsFile    string `yaml:"docs_file"`    // documentation file carrying the version stamp
	StampPrefix string `yaml:"stamp_prefix"` // unique prefix of the stamp line
	CommitBase  string `yaml:"commit_base"`  // URL base the stamp links the full hash under
}

// Default returns the configuration the release pipeline ships with.
func Default() *Config {
	return &Config{
		Compiler: CompilerConfig{
			Bin:     "julec",
			Package: "src/julec",
			Output:  "ir.cpp",
		},
		Rewrite: RewriteConfig{
			Marker: "jule/",
		},
		Destination: DestConfig{
			URL:         "https://github.com/julelang/julec-ir.git",
			Dir:         "julec-ir",
			SrcDir:      "src",
			DocsFile:    "README.md",
			StampPrefix: "IR version: [",
			CommitBase:  "https://github.com/julelang/jule/tree",
		},
		StagingDir: "dist",
		Targets:    target.Default(),
	}
}

// Load returns Default overlaid with the YAML file at configPath. An empty
// path returns Default unchanged. Environment variables (push token) are
// loaded from .env/.env.local first; existing process env wins.
func Load(configPath string) (*Config, error) {
	loadEnv()

	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// Token returns the push token from the process environment.
func (c *Config) Token() string {
	return os.Getenv(EnvToken)
}

func (c *Config) validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("target matrix is empty")
	}
	if c.Compiler.Bin == "" || c.Compiler.Package == "" || c.Compiler.Output == "" {
		return fmt.Errorf("compiler bin, package and output are required")
	}
	if c.Rewrite.Marker == "" {
		return fmt.Errorf("rewrite marker is required")
	}
	if c.Destination.URL == "" || c.Destination.SrcDir == "" {
		return fmt.Errorf("destination url and src_dir are required")
	}
	if c.Destination.StampPrefix == "" {
		return fmt.Errorf("destination stamp_prefix is required")
	}
	return nil
}

// loadEnv loads the first readable .env file. Missing files are the normal
// case and not an error; existing process variables are never overridden.
func loadEnv() {
	for _, p := range []string{".env", ".env.local"} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err == nil {
			return
		}
	}
}
