package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Lattice-Labs/lattice/internal/entity"
)

// StructuralRules is the rule set run against every declared entity
// configuration. The composite instantiates one of each per pass.
func StructuralRules() []func() Rule {
	return []func() Rule{
		func() Rule { return &EntityExistsRule{} },
		func() Rule { return &RequiredFieldsRule{} },
		func() Rule { return &KeySymmetryRule{} },
		func() Rule { return &CircularDependencyRule{} },
	}
}

// ValidateStructure runs the structural rule family over a configuration
// snapshot and returns the aggregate.
func ValidateStructure(ctx *Context) *Result {
	subjects := make([]any, 0, len(ctx.Configs))
	for _, name := range sortedConfigNames(ctx.Configs) {
		subjects = append(subjects, ctx.Configs[name])
	}
	return NewComposite(StructuralRules()...).Validate(subjects, ctx)
}

// EntityExistsRule checks that every declared dependency and foreign key
// target resolves to a declared entity.
type EntityExistsRule struct {
	collector
}

func (r *EntityExistsRule) IsSatisfiedBy(subject any, ctx *Context) bool {
	cfg, ok := subject.(*entity.Config)
	if !ok {
		return true
	}
	ok = true
	for _, dep := range cfg.DependsOn {
		if _, found := ctx.Configs[dep]; !found {
			ok = false
			r.add(Issue{
				Severity:   SeverityError,
				Entity:     cfg.Name,
				Field:      "depends_on",
				Message:    fmt.Sprintf("entity %s depends on undeclared entity %s", cfg.Name, dep),
				Code:       CodeMissingDependency,
				Suggestion: fmt.Sprintf("declare entity %s or remove the dependency", dep),
				Category:   CategoryStructure,
				Priority:   1,
			})
		}
	}
	for _, fk := range cfg.ForeignKeys {
		if _, found := ctx.Configs[fk.Target]; !found {
			ok = false
			r.add(Issue{
				Severity:   SeverityError,
				Entity:     cfg.Name,
				Field:      "foreign_keys",
				Message:    fmt.Sprintf("entity %s has a foreign key to undeclared entity %s", cfg.Name, fk.Target),
				Code:       CodeMissingFKTarget,
				Suggestion: fmt.Sprintf("declare entity %s or remove the foreign key", fk.Target),
				Category:   CategoryStructure,
				Priority:   1,
			})
		}
	}
	return ok
}

// RequiredFieldsRule checks that the fields materialization needs are
// present: a source for non-fixed entities, natural keys everywhere.
type RequiredFieldsRule struct {
	collector
}

func (r *RequiredFieldsRule) IsSatisfiedBy(subject any, ctx *Context) bool {
	cfg, ok := subject.(*entity.Config)
	if !ok {
		return true
	}
	ok = true
	if cfg.Kind != entity.KindFixed && cfg.Source == "" {
		ok = false
		r.add(Issue{
			Severity:   SeverityError,
			Entity:     cfg.Name,
			Field:      "source",
			Message:    fmt.Sprintf("entity %s has no source", cfg.Name),
			Code:       CodeRequiredField,
			Suggestion: "set source to a table name or query",
			Category:   CategoryStructure,
			Priority:   1,
		})
	}
	if cfg.Kind == entity.KindFixed && len(cfg.Rows) == 0 {
		ok = false
		r.add(Issue{
			Severity: SeverityError,
			Entity:   cfg.Name,
			Field:    "rows",
			Message:  fmt.Sprintf("fixed entity %s declares no rows", cfg.Name),
			Code:     CodeRequiredField,
			Category: CategoryStructure,
			Priority: 1,
		})
	}
	if len(cfg.NaturalKeys) == 0 {
		r.add(Issue{
			Severity:   SeverityWarning,
			Entity:     cfg.Name,
			Field:      "natural_keys",
			Message:    fmt.Sprintf("entity %s declares no natural keys, uniqueness cannot be checked", cfg.Name),
			Code:       CodeNoNaturalKey,
			Suggestion: "declare the column set that uniquely identifies a row",
			Category:   CategoryStructure,
			Priority:   2,
		})
	}
	return ok
}

// KeySymmetryRule checks that every foreign key pairs local and remote
// key sequences of equal, non-zero length.
type KeySymmetryRule struct {
	collector
}

func (r *KeySymmetryRule) IsSatisfiedBy(subject any, ctx *Context) bool {
	cfg, ok := subject.(*entity.Config)
	if !ok {
		return true
	}
	ok = true
	for _, fk := range cfg.ForeignKeys {
		if len(fk.LocalKeys) == 0 || len(fk.RemoteKeys) == 0 {
			ok = false
			r.add(Issue{
				Severity: SeverityError,
				Entity:   cfg.Name,
				Field:    "foreign_keys",
				Message:  fmt.Sprintf("foreign key %s → %s declares no key columns", cfg.Name, fk.Target),
				Code:     CodeFKKeyMismatch,
				Category: CategoryStructure,
				Priority: 1,
			})
			continue
		}
		if len(fk.LocalKeys) != len(fk.RemoteKeys) {
			ok = false
			r.add(Issue{
				Severity: SeverityError,
				Entity:   cfg.Name,
				Field:    "foreign_keys",
				Message: fmt.Sprintf("foreign key %s → %s pairs %d local keys with %d remote keys",
					cfg.Name, fk.Target, len(fk.LocalKeys), len(fk.RemoteKeys)),
				Code:       CodeFKKeyMismatch,
				Suggestion: "local_keys and remote_keys must have the same length",
				Category:   CategoryStructure,
				Priority:   1,
			})
		}
	}
	return ok
}

// CircularDependencyRule surfaces every cycle in the dependency graph as
// an error. The graph reports cycles once, so the rule emits its findings
// on the first subject it sees.
type CircularDependencyRule struct {
	collector
	reported bool
}

func (r *CircularDependencyRule) IsSatisfiedBy(subject any, ctx *Context) bool {
	if ctx.Graph == nil || !ctx.Graph.HasCycles {
		return true
	}
	if r.reported {
		return false
	}
	r.reported = true
	for _, cycle := range ctx.Graph.Cycles {
		r.add(Issue{
			Severity:   SeverityError,
			Entity:     cycle[0],
			Message:    fmt.Sprintf("circular dependency: %s", strings.Join(cycle, " → ")),
			Code:       CodeCircularDependency,
			Suggestion: "break the cycle by removing one dependency",
			Category:   CategoryStructure,
			Priority:   1,
		})
	}
	return false
}

func sortedConfigNames(configs map[string]*entity.Config) []string {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
