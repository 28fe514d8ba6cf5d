package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Lattice-Labs/lattice/internal/entity"
)

// Store persists entity configurations and the workflow state as YAML
// files. One file per entity under the entities directory; the analysis
// core only ever sees the loaded snapshot.
type Store struct {
	entitiesDir string
	statePath   string
}

// NewStore returns a store over the given entities directory and state
// file path.
func NewStore(entitiesDir, statePath string) *Store {
	return &Store{entitiesDir: entitiesDir, statePath: statePath}
}

// LoadConfigs reads every entity YAML file into a snapshot map keyed by
// entity name. A file without a name field takes its base filename.
func (s *Store) LoadConfigs() (map[string]*entity.Config, error) {
	entries, err := os.ReadDir(s.entitiesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read entities directory %s: %w", s.entitiesDir, err)
	}

	configs := make(map[string]*entity.Config)
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		path := filepath.Join(s.entitiesDir, e.Name())
		cfg, err := loadConfig(path)
		if err != nil {
			return nil, err
		}
		if cfg.Name == "" {
			cfg.Name = strings.TrimSuffix(strings.TrimSuffix(e.Name(), ".yaml"), ".yml")
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if _, dup := configs[cfg.Name]; dup {
			return nil, fmt.Errorf("duplicate entity name %s in %s", cfg.Name, path)
		}
		configs[cfg.Name] = cfg
	}
	return configs, nil
}

// SaveConfig writes one entity configuration to its own file.
func (s *Store) SaveConfig(cfg *entity.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.entitiesDir, 0755); err != nil {
		return fmt.Errorf("failed to create entities directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode entity %s: %w", cfg.Name, err)
	}
	path := filepath.Join(s.entitiesDir, cfg.Name+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadState reads the persisted workflow record. A missing file is an
// empty state, not an error.
func (s *Store) LoadState() (*entity.State, error) {
	data, err := os.ReadFile(s.statePath)
	if os.IsNotExist(err) {
		return &entity.State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %s: %w", s.statePath, err)
	}
	var state entity.State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.statePath, err)
	}
	return &state, nil
}

// SaveState persists the workflow record, backing up the previous file
// first.
func (s *Store) SaveState(state *entity.State) error {
	if err := s.backupState(); err != nil {
		return err
	}
	if dir := filepath.Dir(s.statePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.WriteFile(s.statePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", s.statePath, err)
	}
	return nil
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func loadConfig(path string) (*entity.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var cfg entity.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}
