package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigFile = `version: "1"
entities_dir: entities
state_path: .lattice/state.yaml
preview_path: .lattice/previews
target_path: target.yaml

database:
  provider: postgresql
  url_env: DATABASE_URL

validation:
  fk_error_threshold: 0.5
  sample_limit: 5
  row_limit: 1000

studio:
  port: 7733
`

const sampleEntityFile = `name: location
kind: table
source: locations
required: true
natural_keys: [id]
columns: [id, name]
`

// InitializeProject scaffolds lattice.yaml and the entities directory in
// the current working directory.
func InitializeProject() error {
	if _, err := os.Stat("lattice.yaml"); err == nil {
		return fmt.Errorf("lattice.yaml already exists")
	}

	if err := os.WriteFile("lattice.yaml", []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write lattice.yaml: %w", err)
	}

	if err := os.MkdirAll("entities", 0755); err != nil {
		return fmt.Errorf("failed to create entities directory: %w", err)
	}

	sample := filepath.Join("entities", "location.yaml")
	if _, err := os.Stat(sample); os.IsNotExist(err) {
		if err := os.WriteFile(sample, []byte(sampleEntityFile), 0644); err != nil {
			return fmt.Errorf("failed to write sample entity: %w", err)
		}
	}

	return nil
}
