package datarules

import (
	"context"
	"fmt"
	"sync"

	"github.com/Lattice-Labs/lattice/internal/dataset"
	"github.com/Lattice-Labs/lattice/internal/entity"
	"github.com/Lattice-Labs/lattice/internal/rules"
)

// outcome is the tagged result of one entity's validation task: either
// a set of issues or a failure. Failures never cancel sibling tasks.
type outcome struct {
	entity string
	result *rules.Result
	err    error
}

// Runner fans data-aware validation out over all entities, one task per
// entity, overlapping dataset fetches. Task failures are converted into
// warning issues; partial results always accumulate.
type Runner struct {
	provider dataset.Provider
	rules    []func() rules.Rule
}

// NewRunner builds a runner using the default data rule set.
func NewRunner(provider dataset.Provider) *Runner {
	return &Runner{provider: provider, rules: DataRules()}
}

// Validate runs every data rule against every entity in the context and
// returns the merged aggregate. The merge is deterministic regardless of
// task scheduling.
func (r *Runner) Validate(ctx context.Context, ruleCtx *rules.Context) *rules.Result {
	names := make([]string, 0, len(ruleCtx.Configs))
	for name := range ruleCtx.Configs {
		names = append(names, name)
	}

	outcomes := make([]outcome, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			outcomes[i] = r.validateEntity(ctx, name, ruleCtx)
		}(i, name)
	}
	wg.Wait()

	merged := rules.NewResult()
	for _, out := range outcomes {
		if out.err != nil {
			merged.Add(rules.Issue{
				Severity: rules.SeverityWarning,
				Entity:   out.entity,
				Message:  fmt.Sprintf("data validation for %s did not run: %v", out.entity, out.err),
				Code:     rules.CodeValidatorFailed,
				Category: rules.CategoryInternal,
				Priority: 3,
			})
			continue
		}
		merged.Merge(out.result)
	}
	merged.Sort()
	return merged
}

// validateEntity is one fan-out task. Panics and fetch errors become the
// task's failure; they are scoped to this entity only.
func (r *Runner) validateEntity(ctx context.Context, name string, ruleCtx *rules.Context) (out outcome) {
	out.entity = name
	defer func() {
		if rec := recover(); rec != nil {
			out.result = nil
			out.err = fmt.Errorf("validator panic: %v", rec)
		}
	}()

	cfg := ruleCtx.Configs[name]
	ds, err := r.provider.Fetch(ctx, cfg)
	if err != nil {
		out.err = fmt.Errorf("fetch failed: %w", err)
		return out
	}

	unit := &Unit{
		Config:  cfg,
		Dataset: ds,
		Related: r.fetchRelated(ctx, cfg, ruleCtx),
	}

	out.result = rules.NewComposite(r.rules...).Validate([]any{unit}, ruleCtx)
	return out
}

// fetchRelated fetches the datasets of the entity's foreign key targets.
// An unavailable target dataset is recorded as nil; the FK rules treat
// that as nothing to check.
func (r *Runner) fetchRelated(ctx context.Context, cfg *entity.Config, ruleCtx *rules.Context) map[string]*entity.Dataset {
	related := make(map[string]*entity.Dataset)
	for _, fk := range cfg.ForeignKeys {
		if _, done := related[fk.Target]; done {
			continue
		}
		target, ok := ruleCtx.Configs[fk.Target]
		if !ok {
			related[fk.Target] = nil
			continue
		}
		ds, err := r.provider.Fetch(ctx, target)
		if err != nil {
			related[fk.Target] = nil
			continue
		}
		related[fk.Target] = ds
	}
	return related
}
