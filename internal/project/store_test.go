package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Lattice-Labs/lattice/internal/entity"
)

func TestLoadConfigs(t *testing.T) {
	dir := t.TempDir()

	site := `name: site
kind: table
source: sites
natural_keys: [code]
foreign_keys:
  - target: location
    local_keys: [location_id]
    remote_keys: [id]
`
	if err := os.WriteFile(filepath.Join(dir, "site.yaml"), []byte(site), 0644); err != nil {
		t.Fatal(err)
	}
	location := `kind: table
source: locations
natural_keys: [id]
`
	if err := os.WriteFile(filepath.Join(dir, "location.yaml"), []byte(location), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir, filepath.Join(dir, "state.yaml"))
	configs, err := store.LoadConfigs()
	if err != nil {
		t.Fatalf("Failed to load configs: %v", err)
	}

	if len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d", len(configs))
	}
	if configs["location"] == nil {
		t.Fatal("Expected name to default to the filename")
	}
	fk := configs["site"].ForeignKeys
	if len(fk) != 1 || fk[0].Target != "location" {
		t.Errorf("Unexpected foreign keys: %v", fk)
	}
}

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, filepath.Join(dir, "state.yaml"))

	state, err := store.LoadState()
	if err != nil {
		t.Fatalf("Missing state file must load as empty: %v", err)
	}

	state.Required = []string{"site"}
	state.Complete("site")
	if err := store.SaveState(state); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	loaded, err := store.LoadState()
	if err != nil {
		t.Fatalf("Failed to reload state: %v", err)
	}
	if !loaded.IsCompleted("site") || !loaded.IsRequired("site") {
		t.Errorf("State did not round-trip: %+v", loaded)
	}
}

func TestSaveStateCreatesBackup(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.yaml")
	store := NewStore(dir, statePath)

	if err := store.SaveState(&entity.State{Required: []string{"a"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveState(&entity.State{Required: []string{"a", "b"}}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "backups"))
	if err != nil {
		t.Fatalf("Expected backups directory: %v", err)
	}
	if len(entries) == 0 {
		t.Error("Expected at least one backup after overwriting state")
	}
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, filepath.Join(dir, "state.yaml"))

	cfg := &entity.Config{Name: "parameter", Kind: entity.KindFixed,
		NaturalKeys: []string{"name"},
		Rows:        []map[string]any{{"name": "ph"}}}
	if err := store.SaveConfig(cfg); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	configs, err := store.LoadConfigs()
	if err != nil {
		t.Fatal(err)
	}
	if configs["parameter"] == nil || configs["parameter"].Kind != entity.KindFixed {
		t.Errorf("Config did not round-trip: %+v", configs["parameter"])
	}
}
