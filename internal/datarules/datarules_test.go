package datarules

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Lattice-Labs/lattice/internal/entity"
	"github.com/Lattice-Labs/lattice/internal/graph"
	"github.com/Lattice-Labs/lattice/internal/rules"
)

// stubProvider serves canned datasets and fails for anything unknown.
type stubProvider struct {
	datasets map[string]*entity.Dataset
}

func (s *stubProvider) Fetch(ctx context.Context, cfg *entity.Config) (*entity.Dataset, error) {
	ds, ok := s.datasets[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("no dataset for %s", cfg.Name)
	}
	return ds, nil
}

func newContext(configs map[string]*entity.Config) *rules.Context {
	return rules.NewContext(configs, graph.Build(configs))
}

func TestDuplicateNaturalKeyReportedOnce(t *testing.T) {
	configs := map[string]*entity.Config{
		"sample": {Name: "sample", Kind: entity.KindTable, Source: "samples",
			NaturalKeys: []string{"code"}, Columns: []string{"code"}},
	}
	provider := &stubProvider{datasets: map[string]*entity.Dataset{
		"sample": {
			Columns: []string{"code"},
			Rows: []map[string]any{
				{"code": "X"}, {"code": "X"}, {"code": "Y"},
			},
		},
	}}

	result := NewRunner(provider).Validate(context.Background(), newContext(configs))

	count := 0
	for _, issue := range result.All() {
		if issue.Code == rules.CodeNonUniqueKeys {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one %s issue, got %d", rules.CodeNonUniqueKeys, count)
	}
}

func TestForeignKeyOrphansAggregated(t *testing.T) {
	configs := map[string]*entity.Config{
		"location": {Name: "location", Kind: entity.KindTable, Source: "locations",
			NaturalKeys: []string{"id"}},
		"site": {Name: "site", Kind: entity.KindTable, Source: "sites",
			NaturalKeys: []string{"code"},
			ForeignKeys: []entity.ForeignKey{
				{Target: "location", LocalKeys: []string{"location_id"}, RemoteKeys: []string{"id"}},
			}},
	}
	provider := &stubProvider{datasets: map[string]*entity.Dataset{
		"location": {Columns: []string{"id"}, Rows: []map[string]any{
			{"id": 1}, {"id": 2},
		}},
		"site": {Columns: []string{"code", "location_id"}, Rows: []map[string]any{
			{"code": "a", "location_id": 1},
			{"code": "b", "location_id": 2},
			{"code": "c", "location_id": 99},
		}},
	}}

	result := NewRunner(provider).Validate(context.Background(), newContext(configs))

	var fkIssues []rules.Issue
	for _, issue := range result.All() {
		if issue.Code == rules.CodeFKDataIntegrity {
			fkIssues = append(fkIssues, issue)
		}
	}
	if len(fkIssues) != 1 {
		t.Fatalf("Expected exactly one %s issue, got %d", rules.CodeFKDataIntegrity, len(fkIssues))
	}
	if want := "(99)"; !strings.Contains(fkIssues[0].Message, want) {
		t.Errorf("Expected message to name unmatched tuple %s, got %q", want, fkIssues[0].Message)
	}
	if fkIssues[0].Severity != rules.SeverityWarning {
		t.Errorf("Expected warning below the error threshold, got %s", fkIssues[0].Severity)
	}
}

func TestForeignKeySeverityEscalates(t *testing.T) {
	configs := map[string]*entity.Config{
		"location": {Name: "location", Kind: entity.KindTable, Source: "locations",
			NaturalKeys: []string{"id"}},
		"site": {Name: "site", Kind: entity.KindTable, Source: "sites",
			NaturalKeys: []string{"code"},
			ForeignKeys: []entity.ForeignKey{
				{Target: "location", LocalKeys: []string{"location_id"}, RemoteKeys: []string{"id"}},
			}},
	}
	provider := &stubProvider{datasets: map[string]*entity.Dataset{
		"location": {Columns: []string{"id"}, Rows: []map[string]any{{"id": 1}}},
		"site": {Columns: []string{"code", "location_id"}, Rows: []map[string]any{
			{"code": "a", "location_id": 7},
			{"code": "b", "location_id": 8},
			{"code": "c", "location_id": 1},
		}},
	}}

	result := NewRunner(provider).Validate(context.Background(), newContext(configs))

	found := false
	for _, issue := range result.Errors {
		if issue.Code == rules.CodeFKDataIntegrity {
			found = true
		}
	}
	if !found {
		t.Error("Expected FK issue to escalate to error above the unmatched threshold")
	}
}

func TestForeignKeyLocalColumnMissing(t *testing.T) {
	configs := map[string]*entity.Config{
		"location": {Name: "location", Kind: entity.KindTable, Source: "locations",
			NaturalKeys: []string{"id"}},
		"site": {Name: "site", Kind: entity.KindTable, Source: "sites",
			NaturalKeys: []string{"code"},
			ForeignKeys: []entity.ForeignKey{
				{Target: "location", LocalKeys: []string{"location_id"}, RemoteKeys: []string{"id"}},
			}},
	}
	provider := &stubProvider{datasets: map[string]*entity.Dataset{
		"location": {Columns: []string{"id"}, Rows: []map[string]any{{"id": 1}}},
		"site": {Columns: []string{"code"}, Rows: []map[string]any{
			{"code": "a"},
		}},
	}}

	result := NewRunner(provider).Validate(context.Background(), newContext(configs))

	var colIssues []rules.Issue
	for _, issue := range result.All() {
		if issue.Code == rules.CodeFKColumnMissing {
			colIssues = append(colIssues, issue)
		}
		if issue.Code == rules.CodeFKDataIntegrity {
			t.Errorf("Integrity must not run without the local column, got %q", issue.Message)
		}
	}
	if len(colIssues) != 1 {
		t.Fatalf("Expected exactly one %s issue, got %d", rules.CodeFKColumnMissing, len(colIssues))
	}
	if colIssues[0].Severity != rules.SeverityError {
		t.Errorf("Expected error severity, got %s", colIssues[0].Severity)
	}
	if !strings.Contains(colIssues[0].Message, "location_id") {
		t.Errorf("Expected message to name the missing column, got %q", colIssues[0].Message)
	}
}

func TestNilDatasetProducesNoIssues(t *testing.T) {
	configs := map[string]*entity.Config{
		"site": {Name: "site", Kind: entity.KindTable, Source: "sites",
			NaturalKeys: []string{"code"},
			Columns:     []string{"code", "location_id"},
			ForeignKeys: []entity.ForeignKey{
				{Target: "location", LocalKeys: []string{"location_id"}, RemoteKeys: []string{"id"}},
			}},
	}
	subjects := []any{&Unit{Config: configs["site"], Dataset: nil}}

	result := rules.NewComposite(DataRules()...).Validate(subjects, newContext(configs))

	if len(result.All()) != 0 {
		t.Errorf("Expected no issues for an unavailable dataset, got %v", result.All())
	}
}

func TestCompositeKeyOrphansSingleIssue(t *testing.T) {
	configs := map[string]*entity.Config{
		"measurement": {Name: "measurement", Kind: entity.KindTable, Source: "measurements",
			NaturalKeys: []string{"sample", "param"},
			ForeignKeys: []entity.ForeignKey{
				{Target: "sample", LocalKeys: []string{"sample", "run"}, RemoteKeys: []string{"code", "run"}},
			}},
		"sample": {Name: "sample", Kind: entity.KindTable, Source: "samples",
			NaturalKeys: []string{"code", "run"}},
	}
	provider := &stubProvider{datasets: map[string]*entity.Dataset{
		"sample": {Columns: []string{"code", "run"}, Rows: []map[string]any{
			{"code": "s1", "run": 1},
		}},
		"measurement": {Columns: []string{"sample", "run", "param"}, Rows: []map[string]any{
			{"sample": "s1", "run": 1, "param": "ph"},
			{"sample": "s2", "run": 1, "param": "ph"},
			{"sample": "s2", "run": 2, "param": "ph"},
			{"sample": "s3", "run": 1, "param": "ph"},
		}},
	}}

	result := NewRunner(provider).Validate(context.Background(), newContext(configs))

	count := 0
	for _, issue := range result.All() {
		if issue.Code == rules.CodeFKDataIntegrity && issue.Entity == "measurement" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected one aggregated issue for the composite FK, got %d", count)
	}
}

func TestUnnestExcludesMeltedColumns(t *testing.T) {
	configs := map[string]*entity.Config{
		"reading": {Name: "reading", Kind: entity.KindTable, Source: "readings",
			NaturalKeys: []string{"station"},
			Columns:     []string{"station", "temp", "ph"},
			Unnest: &entity.Unnest{
				IDColumns:    []string{"station"},
				ValueColumns: []string{"temp", "ph"},
			}},
	}
	provider := &stubProvider{datasets: map[string]*entity.Dataset{
		"reading": {Columns: []string{"station", "variable", "value"}, Rows: []map[string]any{
			{"station": "a", "variable": "temp", "value": 20.5},
		}},
	}}

	result := NewRunner(provider).Validate(context.Background(), newContext(configs))

	for _, issue := range result.All() {
		if issue.Code == rules.CodeMissingColumn {
			t.Errorf("Melted columns must not be required after unnest, got %q", issue.Message)
		}
	}
}

func TestUnnestStillRequiresGeneratedColumns(t *testing.T) {
	configs := map[string]*entity.Config{
		"reading": {Name: "reading", Kind: entity.KindTable, Source: "readings",
			NaturalKeys: []string{"station"},
			Columns:     []string{"station", "temp"},
			Unnest: &entity.Unnest{
				IDColumns:    []string{"station"},
				ValueColumns: []string{"temp"},
			}},
	}
	provider := &stubProvider{datasets: map[string]*entity.Dataset{
		"reading": {Columns: []string{"station"}, Rows: []map[string]any{
			{"station": "a"},
		}},
	}}

	result := NewRunner(provider).Validate(context.Background(), newContext(configs))

	missing := 0
	for _, issue := range result.All() {
		if issue.Code == rules.CodeMissingColumn {
			missing++
		}
	}
	if missing != 2 {
		t.Errorf("Expected variable and value columns to be required, got %d missing-column issues", missing)
	}
}

func TestEmptyResultWarns(t *testing.T) {
	configs := map[string]*entity.Config{
		"site": {Name: "site", Kind: entity.KindTable, Source: "sites",
			NaturalKeys: []string{"code"}},
	}
	provider := &stubProvider{datasets: map[string]*entity.Dataset{
		"site": {Columns: []string{"code"}},
	}}

	result := NewRunner(provider).Validate(context.Background(), newContext(configs))

	found := false
	for _, issue := range result.Warnings {
		if issue.Code == rules.CodeEmptyResult {
			found = true
		}
	}
	if !found {
		t.Error("Expected empty non-fixed entity to produce a warning")
	}
	if !result.Valid() {
		t.Errorf("Empty result must warn, not error: %v", result.Errors)
	}
}

func TestFixedEntityMayBeEmptyOfDatabase(t *testing.T) {
	configs := map[string]*entity.Config{
		"parameter": {Name: "parameter", Kind: entity.KindFixed,
			NaturalKeys: []string{"name"},
			Rows:        []map[string]any{{"name": "ph"}}},
	}
	provider := &stubProvider{datasets: map[string]*entity.Dataset{
		"parameter": {Columns: []string{"name"}, Rows: []map[string]any{{"name": "ph"}}},
	}}

	result := NewRunner(provider).Validate(context.Background(), newContext(configs))

	if len(result.All()) != 0 {
		t.Errorf("Expected clean pass, got %v", result.All())
	}
}

func TestFetchFailureBecomesWarning(t *testing.T) {
	configs := map[string]*entity.Config{
		"good": {Name: "good", Kind: entity.KindTable, Source: "good",
			NaturalKeys: []string{"id"}},
		"broken": {Name: "broken", Kind: entity.KindTable, Source: "broken",
			NaturalKeys: []string{"id"}},
	}
	provider := &stubProvider{datasets: map[string]*entity.Dataset{
		"good": {Columns: []string{"id"}, Rows: []map[string]any{{"id": 1}}},
	}}

	result := NewRunner(provider).Validate(context.Background(), newContext(configs))

	found := false
	for _, issue := range result.Warnings {
		if issue.Code == rules.CodeValidatorFailed && issue.Entity == "broken" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Expected a %s warning for the failing entity, got %v", rules.CodeValidatorFailed, result.All())
	}
	if !result.Valid() {
		t.Errorf("Task failure must not produce errors, got %v", result.Errors)
	}
}

func TestTypeMismatchWarns(t *testing.T) {
	configs := map[string]*entity.Config{
		"location": {Name: "location", Kind: entity.KindTable, Source: "locations",
			NaturalKeys: []string{"id"}},
		"site": {Name: "site", Kind: entity.KindTable, Source: "sites",
			NaturalKeys: []string{"code"},
			ForeignKeys: []entity.ForeignKey{
				{Target: "location", LocalKeys: []string{"location_id"}, RemoteKeys: []string{"id"}},
			}},
	}
	provider := &stubProvider{datasets: map[string]*entity.Dataset{
		"location": {Columns: []string{"id"}, Rows: []map[string]any{{"id": 1}}},
		"site": {Columns: []string{"code", "location_id"}, Rows: []map[string]any{
			{"code": "a", "location_id": "1"},
		}},
	}}

	result := NewRunner(provider).Validate(context.Background(), newContext(configs))

	found := false
	for _, issue := range result.Warnings {
		if issue.Code == rules.CodeTypeMismatch {
			found = true
		}
	}
	if !found {
		t.Error("Expected cross-family key types to warn")
	}
}
