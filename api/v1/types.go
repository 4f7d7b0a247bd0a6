// Package v1 defines the public data types shared across all dtogen layers.
package v1

import (
	"fmt"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Enumerations
// ─────────────────────────────────────────────────────────────────────────────

// DuplicatesStrategy decides what happens when two packaging inputs carry
// the same entry path. The first entry written always wins.
type DuplicatesStrategy string

const (
	// DuplicatesExclude drops later duplicates silently.
	DuplicatesExclude DuplicatesStrategy = "exclude"
	// DuplicatesWarn drops later duplicates and logs each one.
	DuplicatesWarn DuplicatesStrategy = "warn"
	// DuplicatesFail aborts packaging on the first duplicate file.
	DuplicatesFail DuplicatesStrategy = "fail"
)

// ParseDuplicatesStrategy parses s case-insensitively. Empty means exclude.
func ParseDuplicatesStrategy(s string) (DuplicatesStrategy, error) {
	switch DuplicatesStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicatesExclude:
		return DuplicatesExclude, nil
	case DuplicatesWarn:
		return DuplicatesWarn, nil
	case DuplicatesFail:
		return DuplicatesFail, nil
	}
	return "", fmt.Errorf("unknown duplicates strategy %q (want exclude, warn or fail)", s)
}

// RunResult is the outcome recorded for a generate or package run.
type RunResult string

const (
	ResultSuccess RunResult = "success"
	ResultFailure RunResult = "failure"
)

// ─────────────────────────────────────────────────────────────────────────────
// Request types (from dtogen.yaml and flags)
// ─────────────────────────────────────────────────────────────────────────────

// GenerateSpec describes one DTO generation run.
type GenerateSpec struct {
	Input        string `yaml:"input"         mapstructure:"input"`
	RootClass    string `yaml:"root_class"    mapstructure:"root_class"`
	Package      string `yaml:"package"       mapstructure:"package"`
	Out          string `yaml:"out"           mapstructure:"out"`
	InnerClasses bool   `yaml:"inner_classes" mapstructure:"inner_classes"`
	IntegerTypes bool   `yaml:"integer_types" mapstructure:"integer_types"`
	Annotations  bool   `yaml:"annotations"   mapstructure:"annotations"`
	Accessors    bool   `yaml:"accessors"     mapstructure:"accessors"`
	PackageDirs  bool   `yaml:"package_dirs"  mapstructure:"package_dirs"`
}

// PackageSpec describes one fat-archive assembly.
type PackageSpec struct {
	MainClass     string            `yaml:"main_class"      mapstructure:"main_class"`
	Out           string            `yaml:"out"             mapstructure:"out"`
	Classes       []string          `yaml:"classes"         mapstructure:"classes"`
	Libs          []string          `yaml:"libs"            mapstructure:"libs"`
	Duplicates    string            `yaml:"duplicates"      mapstructure:"duplicates"`
	Exclude       []string          `yaml:"exclude"         mapstructure:"exclude"`
	Manifest      map[string]string `yaml:"manifest"        mapstructure:"manifest"`
	Reproducible  bool              `yaml:"reproducible"    mapstructure:"reproducible"`
	SkipMainCheck bool              `yaml:"skip_main_check" mapstructure:"skip_main_check"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Run history (persisted in BoltDB)
// ─────────────────────────────────────────────────────────────────────────────

// GenerationRecord is an immutable record of a generate run.
type GenerationRecord struct {
	ID         string    `json:"id"`
	Input      string    `json:"input"`
	RootClass  string    `json:"root_class"`
	Package    string    `json:"package"`
	Out        string    `json:"out"`
	Classes    int       `json:"classes"`
	Written    int       `json:"written"`
	Unchanged  int       `json:"unchanged"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Result     RunResult `json:"result"`
	Error      string    `json:"error,omitempty"`
}

// PackageRecord is an immutable record of a package run.
type PackageRecord struct {
	ID         string    `json:"id"`
	Out        string    `json:"out"`
	MainClass  string    `json:"main_class"`
	Sources    int       `json:"sources"`
	Entries    int       `json:"entries"`
	Duplicates int       `json:"duplicates"`
	Excluded   int       `json:"excluded"`
	Digest     string    `json:"digest,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Result     RunResult `json:"result"`
	Error      string    `json:"error,omitempty"`
}
