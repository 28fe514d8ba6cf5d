package datarules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Lattice-Labs/lattice/internal/entity"
	"github.com/Lattice-Labs/lattice/internal/rules"
)

// DataRules is the rule set run against realized datasets.
func DataRules() []func() rules.Rule {
	return []func() rules.Rule{
		func() rules.Rule { return &ColumnExistenceRule{} },
		func() rules.Rule { return &NaturalKeyUniquenessRule{} },
		func() rules.Rule { return &NonEmptyRule{} },
		func() rules.Rule { return &FKColumnExistenceRule{} },
		func() rules.Rule { return &FKIntegrityRule{} },
		func() rules.Rule { return &TypeCompatibilityRule{} },
	}
}

// ColumnExistenceRule checks that every declared column survives into the
// realized dataset. With an unnest transform, the melt value-source
// columns are expected to disappear; the id columns and the generated
// variable/value columns must still be present.
type ColumnExistenceRule struct {
	ruleBase
}

func (r *ColumnExistenceRule) IsSatisfiedBy(subject any, ctx *rules.Context) bool {
	unit, ok := subject.(*Unit)
	if !ok || unit.Dataset == nil {
		return true
	}
	cfg := unit.Config

	expected := expectedColumns(cfg)
	ok = true
	for _, col := range expected {
		if !unit.Dataset.HasColumn(col) {
			ok = false
			r.add(rules.Issue{
				Severity:   rules.SeverityError,
				Entity:     cfg.Name,
				Field:      col,
				Message:    fmt.Sprintf("entity %s: declared column %s is missing from the realized dataset", cfg.Name, col),
				Code:       rules.CodeMissingColumn,
				Suggestion: "check the source table or remove the column from the declaration",
				Category:   rules.CategoryData,
				Priority:   1,
			})
		}
	}
	return ok
}

// expectedColumns is the declared column set adjusted for an unnest
// transform.
func expectedColumns(cfg *entity.Config) []string {
	if cfg.Unnest == nil {
		return cfg.Columns
	}
	melted := make(map[string]bool, len(cfg.Unnest.ValueColumns))
	for _, col := range cfg.Unnest.ValueColumns {
		melted[col] = true
	}
	var expected []string
	seen := make(map[string]bool)
	appendCol := func(col string) {
		if col != "" && !melted[col] && !seen[col] {
			seen[col] = true
			expected = append(expected, col)
		}
	}
	for _, col := range cfg.Columns {
		appendCol(col)
	}
	for _, col := range cfg.Unnest.IDColumns {
		appendCol(col)
	}
	appendCol(cfg.Unnest.VariableColumnName())
	appendCol(cfg.Unnest.ValueColumnName())
	return expected
}

// NaturalKeyUniquenessRule flags duplicated natural key tuples. One
// aggregated issue per entity, with the duplicate count and a bounded
// sample, never one issue per duplicate row.
type NaturalKeyUniquenessRule struct {
	ruleBase
}

func (r *NaturalKeyUniquenessRule) IsSatisfiedBy(subject any, ctx *rules.Context) bool {
	unit, ok := subject.(*Unit)
	if !ok || unit.Dataset == nil {
		return true
	}
	cfg := unit.Config
	if len(cfg.NaturalKeys) == 0 || len(unit.Dataset.Rows) < 2 {
		return true
	}
	for _, key := range cfg.NaturalKeys {
		if !unit.Dataset.HasColumn(key) {
			return true // column existence is its own check
		}
	}

	counts := make(map[string]int)
	for _, row := range unit.Dataset.Rows {
		parts := make([]string, 0, len(cfg.NaturalKeys))
		null := false
		for _, key := range cfg.NaturalKeys {
			v := row[key]
			if v == nil {
				null = true
				break
			}
			parts = append(parts, fmt.Sprintf("%v", v))
		}
		if null {
			continue
		}
		counts[strings.Join(parts, "\x1f")]++
	}

	var dups []string
	extra := 0
	for tuple, n := range counts {
		if n > 1 {
			dups = append(dups, tuple)
			extra += n - 1
		}
	}
	if len(dups) == 0 {
		return true
	}
	sort.Strings(dups)

	r.add(rules.Issue{
		Severity: rules.SeverityError,
		Entity:   cfg.Name,
		Field:    strings.Join(cfg.NaturalKeys, ","),
		Message: fmt.Sprintf("entity %s: natural key (%s) is not unique, %d duplicated tuple(s) covering %d extra row(s), e.g. %s",
			cfg.Name, strings.Join(cfg.NaturalKeys, ", "), len(dups), extra, sampleTuples(dups, ctx.SampleLimit)),
		Code:       rules.CodeNonUniqueKeys,
		Suggestion: "deduplicate the source or extend the natural key",
		Category:   rules.CategoryData,
		Priority:   1,
	})
	return false
}

// NonEmptyRule warns when a non-fixed entity realizes to zero rows.
type NonEmptyRule struct {
	ruleBase
}

func (r *NonEmptyRule) IsSatisfiedBy(subject any, ctx *rules.Context) bool {
	unit, ok := subject.(*Unit)
	if !ok || unit.Dataset == nil {
		return true
	}
	cfg := unit.Config
	if cfg.Kind == entity.KindFixed || len(unit.Dataset.Rows) > 0 {
		return true
	}
	r.add(rules.Issue{
		Severity:   rules.SeverityWarning,
		Entity:     cfg.Name,
		Message:    fmt.Sprintf("entity %s realized to zero rows", cfg.Name),
		Code:       rules.CodeEmptyResult,
		Suggestion: "check the source filter or table contents",
		Category:   rules.CategoryData,
		Priority:   2,
	})
	return false
}

// TypeCompatibilityRule warns when a foreign key pairs columns from
// different coarse type families. Same-family pairs pass silently.
type TypeCompatibilityRule struct {
	ruleBase
}

func (r *TypeCompatibilityRule) IsSatisfiedBy(subject any, ctx *rules.Context) bool {
	unit, ok := subject.(*Unit)
	if !ok || unit.Dataset == nil {
		return true
	}
	cfg := unit.Config
	ok = true
	for _, fk := range cfg.ForeignKeys {
		remote := unit.Related[fk.Target]
		if remote == nil || len(fk.LocalKeys) != len(fk.RemoteKeys) {
			continue
		}
		for i := range fk.LocalKeys {
			localFam, haveLocal := unit.Dataset.ColumnFamily(fk.LocalKeys[i])
			remoteFam, haveRemote := remote.ColumnFamily(fk.RemoteKeys[i])
			if !haveLocal || !haveRemote || localFam == remoteFam {
				continue
			}
			ok = false
			r.add(rules.Issue{
				Severity: rules.SeverityWarning,
				Entity:   cfg.Name,
				Field:    fk.LocalKeys[i],
				Message: fmt.Sprintf("entity %s: foreign key column %s is %s but %s.%s is %s",
					cfg.Name, fk.LocalKeys[i], localFam, fk.Target, fk.RemoteKeys[i], remoteFam),
				Code:       rules.CodeTypeMismatch,
				Suggestion: "cast one side so both key columns share a type family",
				Category:   rules.CategoryData,
				Priority:   2,
			})
		}
	}
	return ok
}

func sampleTuples(tuples []string, limit int) string {
	if limit <= 0 {
		limit = 5
	}
	if len(tuples) > limit {
		tuples = tuples[:limit]
	}
	parts := make([]string, len(tuples))
	for i, t := range tuples {
		parts[i] = entity.TupleString(t)
	}
	return strings.Join(parts, ", ")
}

// ruleBase carries the accumulated result for data rules.
type ruleBase struct {
	result *rules.Result
}

func (b *ruleBase) Result() *rules.Result {
	if b.result == nil {
		b.result = rules.NewResult()
	}
	return b.result
}

func (b *ruleBase) add(issue rules.Issue) {
	b.Result().Add(issue)
}
