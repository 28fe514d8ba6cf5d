package analysis

import (
	"context"
	"fmt"

	"github.com/Lattice-Labs/lattice/internal/config"
	"github.com/Lattice-Labs/lattice/internal/datarules"
	"github.com/Lattice-Labs/lattice/internal/dataset"
	"github.com/Lattice-Labs/lattice/internal/entity"
	"github.com/Lattice-Labs/lattice/internal/graph"
	"github.com/Lattice-Labs/lattice/internal/project"
	"github.com/Lattice-Labs/lattice/internal/rules"
	"github.com/Lattice-Labs/lattice/internal/tasks"
)

// Analysis is one full pass over a project: the loaded snapshot, its
// dependency graph, the aggregate validation result and a tracker bound
// to the stored workflow state.
type Analysis struct {
	Configs map[string]*entity.Config
	Graph   *graph.Graph
	Result  *rules.Result
	Tracker *tasks.Tracker
	Store   *project.Store

	adapter dataset.Adapter
}

// Options controls how much of the pass runs.
type Options struct {
	// WithData connects to the database and runs the data-aware
	// validators on top of the structural pass.
	WithData bool
}

// Run loads the project, builds the graph and runs validation. Close must
// be called when the analysis is no longer needed.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Analysis, error) {
	store := project.NewStore(cfg.EntitiesDir, cfg.StatePath)

	configs, err := store.LoadConfigs()
	if err != nil {
		return nil, err
	}
	state, err := store.LoadState()
	if err != nil {
		return nil, err
	}

	g := graph.Build(configs)

	ruleCtx := rules.NewContext(configs, g)
	ruleCtx.FKErrorThreshold = cfg.Validation.FKErrorThreshold
	ruleCtx.SampleLimit = cfg.Validation.SampleLimit

	result := rules.ValidateStructure(ruleCtx)

	a := &Analysis{
		Configs: configs,
		Graph:   g,
		Result:  result,
		Store:   store,
	}

	var provider dataset.Provider
	if opts.WithData {
		engine := dataset.NewEngine(nil, cfg.Validation.RowLimit)
		if needsDatabase(configs) {
			var err error
			engine, err = a.connect(ctx, cfg)
			if err != nil {
				return nil, err
			}
		}
		provider = engine
		result.Merge(datarules.NewRunner(engine).Validate(ctx, ruleCtx))
		result.Sort()
	}

	cache := dataset.NewCache(cfg.PreviewPath)
	a.Tracker = tasks.NewTracker(configs, g, result, state, cache, provider)

	return a, nil
}

// Engine opens a dataset engine for on-demand fetches (previews,
// submissions) outside a validation pass.
func Engine(ctx context.Context, cfg *config.Config) (*dataset.Engine, func(), error) {
	adapter := dataset.NewAdapter(cfg.Database.Provider)
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, nil, err
	}
	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	cleanup := func() { adapter.Close() }
	return dataset.NewEngine(adapter, cfg.Validation.RowLimit), cleanup, nil
}

func (a *Analysis) connect(ctx context.Context, cfg *config.Config) (*dataset.Engine, error) {
	adapter := dataset.NewAdapter(cfg.Database.Provider)
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}
	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.adapter = adapter
	return dataset.NewEngine(adapter, cfg.Validation.RowLimit), nil
}

// needsDatabase reports whether any entity is realized from a database.
func needsDatabase(configs map[string]*entity.Config) bool {
	for _, cfg := range configs {
		if cfg.Kind != entity.KindFixed {
			return true
		}
	}
	return false
}

// Close releases the database connection, if one was opened.
func (a *Analysis) Close() {
	if a.adapter != nil {
		a.adapter.Close()
	}
}
