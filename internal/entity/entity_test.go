package entity

import (
	"testing"
	"time"
)

func TestDependenciesUnion(t *testing.T) {
	cfg := &Config{
		Name:      "visit",
		DependsOn: []string{"site", "subject"},
		ForeignKeys: []ForeignKey{
			{Target: "subject", LocalKeys: []string{"subject_id"}, RemoteKeys: []string{"id"}},
			{Target: "location", LocalKeys: []string{"location_id"}, RemoteKeys: []string{"id"}},
		},
	}

	deps := cfg.Dependencies()
	want := []string{"site", "subject", "location"}
	if len(deps) != len(want) {
		t.Fatalf("expected %d dependencies, got %v", len(want), deps)
	}
	for i, name := range want {
		if deps[i] != name {
			t.Errorf("dependency %d: expected %s, got %s", i, name, deps[i])
		}
	}
}

func TestStateTransitionsExclusive(t *testing.T) {
	s := &State{}

	s.Complete("site")
	if !s.IsCompleted("site") || s.IsIgnored("site") {
		t.Errorf("site should be completed only, got completed=%v ignored=%v",
			s.IsCompleted("site"), s.IsIgnored("site"))
	}

	s.Ignore("site")
	if s.IsCompleted("site") || !s.IsIgnored("site") {
		t.Errorf("ignore should displace completed, got completed=%v ignored=%v",
			s.IsCompleted("site"), s.IsIgnored("site"))
	}

	s.Reset("site")
	if s.IsCompleted("site") || s.IsIgnored("site") {
		t.Errorf("reset should clear both sets")
	}

	s.Complete("site")
	s.Complete("site")
	if len(s.Completed) != 1 {
		t.Errorf("completing twice should not duplicate, got %v", s.Completed)
	}
}

func TestConfigValidateRejectsUnknownKind(t *testing.T) {
	cfg := &Config{Name: "site", Kind: "view"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown kind")
	}
	cfg.Kind = KindTable
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected table kind to pass, got %v", err)
	}
	cfg.Name = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestUnnestColumnDefaults(t *testing.T) {
	u := &Unnest{IDColumns: []string{"id"}, ValueColumns: []string{"height", "weight"}}
	if u.VariableColumnName() != "variable" || u.ValueColumnName() != "value" {
		t.Errorf("expected default column names, got %s/%s",
			u.VariableColumnName(), u.ValueColumnName())
	}

	u.VariableColumn = "measure"
	if u.VariableColumnName() != "measure" {
		t.Errorf("expected configured name, got %s", u.VariableColumnName())
	}
}

func TestKeyTuplesSkipsNulls(t *testing.T) {
	d := &Dataset{
		Columns: []string{"a", "b"},
		Rows: []map[string]any{
			{"a": 1, "b": "x"},
			{"a": 1, "b": "x"},
			{"a": nil, "b": "y"},
			{"a": 2, "b": "y"},
		},
	}

	tuples := d.KeyTuples([]string{"a", "b"})
	if len(tuples) != 2 {
		t.Fatalf("expected 2 distinct tuples, got %d", len(tuples))
	}
	if !tuples["1\x1fx"] || !tuples["2\x1fy"] {
		t.Errorf("unexpected tuple set: %v", tuples)
	}
	if got := TupleString("1\x1fx"); got != "(1, x)" {
		t.Errorf("expected (1, x), got %s", got)
	}
}

func TestColumnFamilyMixedFallsBackToText(t *testing.T) {
	d := &Dataset{
		Columns: []string{"n", "mixed", "ts", "empty"},
		Rows: []map[string]any{
			{"n": 1, "mixed": 1, "ts": time.Now()},
			{"n": 2.5, "mixed": "two", "ts": time.Now()},
		},
	}

	if fam, ok := d.ColumnFamily("n"); !ok || fam != FamilyNumeric {
		t.Errorf("expected numeric, got %s ok=%v", fam, ok)
	}
	if fam, ok := d.ColumnFamily("mixed"); !ok || fam != FamilyText {
		t.Errorf("expected mixed column to classify as text, got %s ok=%v", fam, ok)
	}
	if fam, ok := d.ColumnFamily("ts"); !ok || fam != FamilyDatetime {
		t.Errorf("expected datetime, got %s ok=%v", fam, ok)
	}
	if _, ok := d.ColumnFamily("empty"); ok {
		t.Error("expected no family for a column with no values")
	}
}

func TestNilDatasetIsSafe(t *testing.T) {
	var d *Dataset
	if !d.Empty() {
		t.Error("nil dataset should be empty")
	}
	if d.HasColumn("a") {
		t.Error("nil dataset has no columns")
	}
	if len(d.KeyTuples([]string{"a"})) != 0 {
		t.Error("nil dataset has no tuples")
	}
}
