package submission

import (
	"fmt"
	"strings"

	"github.com/Lattice-Labs/lattice/internal/rules"
)

// SubmissionRules is the rule set run before a dataset is handed to the
// external ingestion pipeline. Same composition contract as the
// structural and data families.
func SubmissionRules() []func() rules.Rule {
	return []func() rules.Rule{
		func() rules.Rule { return &PrimaryKeyRule{} },
		func() rules.Rule { return &RequiredColumnsRule{} },
		func() rules.Rule { return &TypeMatrixRule{} },
		func() rules.Rule { return &ColumnCoverageRule{} },
	}
}

// Validate runs the submission rule family over one realized dataset.
func Validate(unit *Unit, ctx *rules.Context) *rules.Result {
	return rules.NewComposite(SubmissionRules()...).Validate([]any{unit}, ctx)
}

// PrimaryKeyRule checks that the target's primary key columns are present
// and never null in the submitted dataset.
type PrimaryKeyRule struct {
	ruleBase
}

func (r *PrimaryKeyRule) IsSatisfiedBy(subject any, ctx *rules.Context) bool {
	unit, ok := subject.(*Unit)
	if !ok || unit.Dataset == nil {
		return true
	}
	ok = true
	for _, key := range unit.Target.PrimaryKeys {
		if !unit.Dataset.HasColumn(key) {
			ok = false
			r.add(rules.Issue{
				Severity: rules.SeverityError,
				Entity:   unit.Entity,
				Field:    key,
				Message:  fmt.Sprintf("submission to %s: primary key column %s is missing", unit.Target.Name, key),
				Code:     rules.CodeMissingPrimaryKey,
				Category: rules.CategorySubmission,
				Priority: 1,
			})
			continue
		}
		nulls := 0
		for _, row := range unit.Dataset.Rows {
			if v, present := row[key]; !present || v == nil {
				nulls++
			}
		}
		if nulls > 0 {
			ok = false
			r.add(rules.Issue{
				Severity: rules.SeverityError,
				Entity:   unit.Entity,
				Field:    key,
				Message: fmt.Sprintf("submission to %s: primary key column %s is null in %d row(s)",
					unit.Target.Name, key, nulls),
				Code:     rules.CodeMissingPrimaryKey,
				Category: rules.CategorySubmission,
				Priority: 1,
			})
		}
	}
	return ok
}

// RequiredColumnsRule checks that every required target column is present.
type RequiredColumnsRule struct {
	ruleBase
}

func (r *RequiredColumnsRule) IsSatisfiedBy(subject any, ctx *rules.Context) bool {
	unit, ok := subject.(*Unit)
	if !ok || unit.Dataset == nil {
		return true
	}
	ok = true
	for _, col := range unit.Target.Columns {
		if col.Required && !unit.Dataset.HasColumn(col.Name) {
			ok = false
			r.add(rules.Issue{
				Severity:   rules.SeverityError,
				Entity:     unit.Entity,
				Field:      col.Name,
				Message:    fmt.Sprintf("submission to %s: required column %s is missing", unit.Target.Name, col.Name),
				Code:       rules.CodeMissingRequired,
				Suggestion: "add the column to the entity's declared columns",
				Category:   rules.CategorySubmission,
				Priority:   1,
			})
		}
	}
	return ok
}

// TypeMatrixRule checks submitted column values against the target's
// declared types using the type-compatibility matrix.
type TypeMatrixRule struct {
	ruleBase
}

func (r *TypeMatrixRule) IsSatisfiedBy(subject any, ctx *rules.Context) bool {
	unit, ok := subject.(*Unit)
	if !ok || unit.Dataset == nil {
		return true
	}
	ok = true
	for _, col := range unit.Target.Columns {
		if !unit.Dataset.HasColumn(col.Name) {
			continue
		}
		family, have := unit.Dataset.ColumnFamily(col.Name)
		if !have || Compatible(col.Type, family) {
			continue
		}
		ok = false
		r.add(rules.Issue{
			Severity: rules.SeverityError,
			Entity:   unit.Entity,
			Field:    col.Name,
			Message: fmt.Sprintf("submission to %s: column %s holds %s values but the target expects %s",
				unit.Target.Name, col.Name, family, col.Type),
			Code:       rules.CodeIncompatibleType,
			Suggestion: fmt.Sprintf("cast %s to %s before submitting", col.Name, col.Type),
			Category:   rules.CategorySubmission,
			Priority:   1,
		})
	}
	return ok
}

// ColumnCoverageRule reports columns the target does not know about and
// optional target columns the dataset does not fill. Informational only.
type ColumnCoverageRule struct {
	ruleBase
}

func (r *ColumnCoverageRule) IsSatisfiedBy(subject any, ctx *rules.Context) bool {
	unit, ok := subject.(*Unit)
	if !ok || unit.Dataset == nil {
		return true
	}
	var extra []string
	for _, col := range unit.Dataset.Columns {
		if _, known := unit.Target.Column(col); !known {
			extra = append(extra, col)
		}
	}
	if len(extra) > 0 {
		r.add(rules.Issue{
			Severity: rules.SeverityInfo,
			Entity:   unit.Entity,
			Message: fmt.Sprintf("submission to %s: column(s) %s are not part of the target and will be dropped",
				unit.Target.Name, strings.Join(extra, ", ")),
			Code:     rules.CodeExtraColumn,
			Category: rules.CategorySubmission,
			Priority: 3,
		})
	}

	var missing []string
	for _, col := range unit.Target.Columns {
		if !col.Required && !unit.Dataset.HasColumn(col.Name) {
			missing = append(missing, col.Name)
		}
	}
	if len(missing) > 0 {
		r.add(rules.Issue{
			Severity: rules.SeverityInfo,
			Entity:   unit.Entity,
			Message: fmt.Sprintf("submission to %s: optional column(s) %s are not filled",
				unit.Target.Name, strings.Join(missing, ", ")),
			Code:     rules.CodeExtraColumn,
			Category: rules.CategorySubmission,
			Priority: 3,
		})
	}
	return len(extra) == 0 && len(missing) == 0
}

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
