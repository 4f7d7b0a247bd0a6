// Package config provides the dtogen configuration loader.
// Config is loaded by merging defaults → ~/.dtogen/config.yaml → dtogen.yaml → DTOGEN_* env vars.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	v1 "github.com/f9-o/dtogen/api/v1"
)

// ProjectFile is the name of the per-project config file.
const ProjectFile = "dtogen.yaml"

// Defaults contains factory-default values applied before any config file is loaded.
var Defaults = map[string]any{
	"generate.inner_classes": false,
	"generate.integer_types": false,
	"generate.annotations":   true,
	"generate.accessors":     true,
	"generate.package_dirs":  false,
	"package.duplicates":     string(v1.DuplicatesExclude),
	"package.reproducible":   false,
	"log.level":              "info",
	"log.format":             "text",
}

// ─────────────────────────────────────────────────────────────────────────────
// Config types
// ─────────────────────────────────────────────────────────────────────────────

// Config is the fully-decoded project configuration.
type Config struct {
	Version  string          `mapstructure:"version"`
	Generate v1.GenerateSpec `mapstructure:"generate"`
	Package  v1.PackageSpec  `mapstructure:"package"`
	Log      LogConfig       `mapstructure:"log"`

	// File is the project config file that was merged, if any.
	File string `mapstructure:"-"`
}

// LogConfig controls logging behaviour.
type LogConfig struct {
	Level  string `mapstructure:"level"` // debug | info | warn | error
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"` // text | json | pretty
}

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// Load discovers and loads the configuration, walking up directories to find
// dtogen.yaml, then merging it with the global config and environment variables.
func Load(explicitPath string) (*Config, error) {
	v := viper.New()

	// Apply defaults
	for k, val := range Defaults {
		v.SetDefault(k, val)
	}

	// Environment variable binding: DTOGEN_LOG_LEVEL → log.level
	v.SetEnvPrefix("DTOGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load global config (~/.dtogen/config.yaml) if it exists
	globalCfg := filepath.Join(Home(), "config.yaml")
	if _, err := os.Stat(globalCfg); err == nil {
		v.SetConfigFile(globalCfg)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read global config: %w", err)
		}
	}

	// Load project config
	projectCfg := explicitPath
	if projectCfg == "" {
		if path, err := discoverProjectConfig(); err == nil {
			projectCfg = path
		}
	}
	if projectCfg != "" {
		v.SetConfigFile(projectCfg)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read project config %q: %w", projectCfg, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.File = projectCfg

	// Resolve env variable placeholders in path values
	expandEnvInConfig(&cfg)
	if projectCfg != "" {
		resolvePaths(&cfg, filepath.Dir(projectCfg))
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

// discoverProjectConfig walks up from the CWD looking for dtogen.yaml.
func discoverProjectConfig() (string, error) {
	start, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for dir := start; ; {
		candidate := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s not found (searched up from %s)", ProjectFile, start)
}

// expandEnvInConfig resolves ${VAR} placeholders in path fields.
func expandEnvInConfig(cfg *Config) {
	g := &cfg.Generate
	g.Input = os.ExpandEnv(g.Input)
	g.Out = os.ExpandEnv(g.Out)

	p := &cfg.Package
	p.Out = os.ExpandEnv(p.Out)
	for i := range p.Classes {
		p.Classes[i] = os.ExpandEnv(p.Classes[i])
	}
	for i := range p.Libs {
		p.Libs[i] = os.ExpandEnv(p.Libs[i])
	}
	for k, val := range p.Manifest {
		p.Manifest[k] = os.ExpandEnv(val)
	}
}

// resolvePaths makes relative paths from the project file relative to the
// directory holding it.
func resolvePaths(cfg *Config, base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	cfg.Generate.Input = abs(cfg.Generate.Input)
	cfg.Generate.Out = abs(cfg.Generate.Out)
	cfg.Package.Out = abs(cfg.Package.Out)
	for i := range cfg.Package.Classes {
		cfg.Package.Classes[i] = abs(cfg.Package.Classes[i])
	}
	for i := range cfg.Package.Libs {
		cfg.Package.Libs[i] = abs(cfg.Package.Libs[i])
	}
}

// validate performs semantic validation on the loaded config.
func validate(cfg *Config) error {
	if _, err := v1.ParseDuplicatesStrategy(cfg.Package.Duplicates); err != nil {
		return fmt.Errorf("package.duplicates: %w", err)
	}
	switch cfg.Log.Format {
	case "", "text", "json", "pretty":
	default:
		return fmt.Errorf("log.format: unknown format %q (want text, json or pretty)", cfg.Log.Format)
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}
	return nil
}

// Home returns the dtogen home directory (~/.dtogen). DTOGEN_HOME overrides it.
func Home() string {
	if h := os.Getenv("DTOGEN_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dtogen"
	}
	return filepath.Join(home, ".dtogen")
}

// DefaultConfigTemplate is the content written by `dtogen init`.
const DefaultConfigTemplate = `# dtogen.yaml — project settings
# Flags given on the command line override these values.
version: "1"

generate:
  input: samples/response.json
  root_class: Response
  package: com.example.dto
  out: src/main/java/com/example/dto
  inner_classes: false
  integer_types: false
  annotations: true
  accessors: true

package:
  main_class: org.example.Main
  out: build/libs/app-all.jar
  classes:
    - build/classes/java/main
  libs:
    - build/dependencies
  duplicates: exclude   # exclude | warn | fail
  exclude:
    - META-INF/*.SF
    - META-INF/*.DSA
    - META-INF/*.RSA
  # manifest:
  #   Implementation-Version: 1.0.0
  reproducible: false

log:
  level: info
  format: text   # text | json | pretty
`
