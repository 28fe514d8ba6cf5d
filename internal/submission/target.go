package submission

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Lattice-Labs/lattice/internal/entity"
)

// Target describes the schema of the external ingestion target one
// realized dataset is submitted to.
type Target struct {
	Name        string         `yaml:"name" json:"name"`
	PrimaryKeys []string       `yaml:"primary_keys" json:"primary_keys"`
	Columns     []TargetColumn `yaml:"columns" json:"columns"`
}

// TargetColumn is one column the target accepts.
type TargetColumn struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
}

// LoadTarget reads a target schema from a YAML file.
func LoadTarget(path string) (*Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read target schema: %w", err)
	}
	var target Target
	if err := yaml.Unmarshal(data, &target); err != nil {
		return nil, fmt.Errorf("failed to parse target schema %s: %w", path, err)
	}
	if target.Name == "" {
		return nil, fmt.Errorf("target schema %s has no name", path)
	}
	return &target, nil
}

// Column returns the target column with the given name, if declared.
func (t *Target) Column(name string) (*TargetColumn, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Unit is the subject submission rules run against: one realized dataset
// and the target it is destined for.
type Unit struct {
	Entity  string
	Dataset *entity.Dataset
	Target  *Target
}
