package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a project plan file.
type ImportSchema struct {
	Project      ProjectImport      `json:"project" yaml:"project" toml:"project"`
	Tasks        []TaskImport       `json:"tasks" yaml:"tasks" toml:"tasks"`
	Dependencies []DependencyImport `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	Code         string  `json:"code" yaml:"code" toml:"code"`
	Name         string  `json:"name" yaml:"name" toml:"name"`
	Description  string  `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	StartDate    *string `json:"start_date,omitempty" yaml:"start_date,omitempty" toml:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty" yaml:"end_date,omitempty" toml:"end_date,omitempty"`
	AutoSchedule bool    `json:"auto_schedule,omitempty" yaml:"auto_schedule,omitempty" toml:"auto_schedule,omitempty"`
}

// TaskImport defines a task in the import file. Parents must appear before
// their children.
type TaskImport struct {
	Ref         string   `json:"ref" yaml:"ref" toml:"ref"`
	ParentRef   *string  `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty" toml:"parent_ref,omitempty"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Title       string   `json:"title" yaml:"title" toml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Priority    string   `json:"priority,omitempty" yaml:"priority,omitempty" toml:"priority,omitempty"`
	StartDate   *string  `json:"start_date,omitempty" yaml:"start_date,omitempty" toml:"start_date,omitempty"`
	EndDate     *string  `json:"end_date,omitempty" yaml:"end_date,omitempty" toml:"end_date,omitempty"`
	Progress    *int     `json:"progress,omitempty" yaml:"progress,omitempty" toml:"progress,omitempty"`
	Status      string   `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	EstimatePd  *float64 `json:"estimate_pd,omitempty" yaml:"estimate_pd,omitempty" toml:"estimate_pd,omitempty"`
	Assignees   []string `json:"assignees,omitempty" yaml:"assignees,omitempty" toml:"assignees,omitempty"`
}

// DependencyImport defines a finish-to-start edge between two task refs.
type DependencyImport struct {
	PredecessorRef string `json:"predecessor_ref" yaml:"predecessor_ref" toml:"predecessor_ref"`
	SuccessorRef   string `json:"successor_ref" yaml:"successor_ref" toml:"successor_ref"`
	Type           string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	LagDays        int    `json:"lag_days,omitempty" yaml:"lag_days,omitempty" toml:"lag_days,omitempty"`
}

// LoadImportSchema reads and parses a plan file. Files ending in .yaml or
// .yml are read as YAML, .toml as TOML, everything else as JSON.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, formatForPath(path))
}

// ParseImportSchema decodes data in the given format ("yaml", "toml" or "json").
func ParseImportSchema(data []byte, format string) (*ImportSchema, error) {
	var schema ImportSchema
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
	return &schema, nil
}

func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}
