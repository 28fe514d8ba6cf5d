package datarules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Lattice-Labs/lattice/internal/rules"
)

// FKColumnExistenceRule errors when declared local foreign key columns
// are absent from the realized dataset.
type FKColumnExistenceRule struct {
	ruleBase
}

func (r *FKColumnExistenceRule) IsSatisfiedBy(subject any, ctx *rules.Context) bool {
	unit, ok := subject.(*Unit)
	if !ok || unit.Dataset == nil {
		return true
	}
	cfg := unit.Config
	ok = true
	for _, fk := range cfg.ForeignKeys {
		var missing []string
		for _, col := range fk.LocalKeys {
			if !unit.Dataset.HasColumn(col) {
				missing = append(missing, col)
			}
		}
		if len(missing) == 0 {
			continue
		}
		ok = false
		r.add(rules.Issue{
			Severity: rules.SeverityError,
			Entity:   cfg.Name,
			Field:    strings.Join(fk.LocalKeys, ","),
			Message: fmt.Sprintf("entity %s: foreign key to %s uses missing column(s) %s",
				cfg.Name, fk.Target, strings.Join(missing, ", ")),
			Code:       rules.CodeFKColumnMissing,
			Suggestion: "check the source columns or fix local_keys",
			Category:   rules.CategoryData,
			Priority:   1,
		})
	}
	return ok
}

// FKIntegrityRule checks referential integrity per foreign key: local key
// tuples must exist among the related entity's remote key tuples. One
// aggregated issue per foreign key regardless of how many rows are
// orphaned; the severity escalates to error once the unmatched fraction
// passes the configured threshold.
type FKIntegrityRule struct {
	ruleBase
}

func (r *FKIntegrityRule) IsSatisfiedBy(subject any, ctx *rules.Context) bool {
	unit, ok := subject.(*Unit)
	if !ok || unit.Dataset == nil {
		return true
	}
	cfg := unit.Config
	ok = true
	for _, fk := range cfg.ForeignKeys {
		remote := unit.Related[fk.Target]
		if remote == nil || len(fk.LocalKeys) == 0 || len(fk.LocalKeys) != len(fk.RemoteKeys) {
			continue
		}
		localOK := true
		for _, col := range fk.LocalKeys {
			if !unit.Dataset.HasColumn(col) {
				localOK = false // reported by FKColumnExistenceRule
			}
		}
		if !localOK {
			continue
		}

		localTuples := unit.Dataset.KeyTuples(fk.LocalKeys)
		if len(localTuples) == 0 {
			continue
		}
		remoteTuples := remote.KeyTuples(fk.RemoteKeys)

		var orphans []string
		for tuple := range localTuples {
			if !remoteTuples[tuple] {
				orphans = append(orphans, tuple)
			}
		}
		if len(orphans) == 0 {
			continue
		}
		sort.Strings(orphans)
		ok = false

		fraction := float64(len(orphans)) / float64(len(localTuples))
		severity := rules.SeverityWarning
		priority := 2
		if fraction >= ctx.FKErrorThreshold {
			severity = rules.SeverityError
			priority = 1
		}

		r.add(rules.Issue{
			Severity: severity,
			Entity:   cfg.Name,
			Field:    strings.Join(fk.LocalKeys, ","),
			Message: fmt.Sprintf("entity %s: %d of %d distinct (%s) tuple(s) have no match in %s, e.g. %s",
				cfg.Name, len(orphans), len(localTuples), strings.Join(fk.LocalKeys, ", "),
				fk.Target, sampleTuples(orphans, ctx.SampleLimit)),
			Code:       rules.CodeFKDataIntegrity,
			Suggestion: fmt.Sprintf("add the missing rows to %s or filter the orphans", fk.Target),
			Category:   rules.CategoryData,
			Priority:   priority,
		})
	}
	return ok
}
