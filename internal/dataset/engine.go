package dataset

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Lattice-Labs/lattice/internal/entity"
)

// Provider hands out realized datasets for entities. Implementations must
// return datasets that the caller can treat as read-only.
type Provider interface {
	Fetch(ctx context.Context, cfg *entity.Config) (*entity.Dataset, error)
}

// Engine realizes entities against a database adapter. Fixed entities are
// realized from their inline rows and never touch the database. Fetched
// datasets are memoized for the lifetime of the engine, so one analysis
// pass fetches each entity at most once.
type Engine struct {
	adapter  Adapter
	rowLimit uint64

	mu    sync.Mutex
	cache map[string]*entity.Dataset
}

// NewEngine wraps a connected adapter. rowLimit bounds every fetch; zero
// means unbounded.
func NewEngine(adapter Adapter, rowLimit uint64) *Engine {
	return &Engine{
		adapter:  adapter,
		rowLimit: rowLimit,
		cache:    make(map[string]*entity.Dataset),
	}
}

func (e *Engine) Fetch(ctx context.Context, cfg *entity.Config) (*entity.Dataset, error) {
	e.mu.Lock()
	if ds, ok := e.cache[cfg.Name]; ok {
		e.mu.Unlock()
		return ds, nil
	}
	e.mu.Unlock()

	ds, err := e.realize(ctx, cfg)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[cfg.Name] = ds
	e.mu.Unlock()
	return ds, nil
}

func (e *Engine) realize(ctx context.Context, cfg *entity.Config) (*entity.Dataset, error) {
	switch cfg.Kind {
	case entity.KindFixed:
		return FromRows(cfg.Rows), nil
	case entity.KindQuery:
		if e.adapter == nil {
			return nil, fmt.Errorf("no database configured for entity %s", cfg.Name)
		}
		return e.adapter.FetchQuery(ctx, cfg.Source, e.rowLimit)
	default:
		if e.adapter == nil {
			return nil, fmt.Errorf("no database configured for entity %s", cfg.Name)
		}
		return e.adapter.FetchTable(ctx, cfg.Source, nil, e.rowLimit)
	}
}

// FromRows builds a dataset from inline rows. The column list is the
// union of row keys, sorted: row maps carry no order, so sorting is the
// only stable choice.
func FromRows(rows []map[string]any) *entity.Dataset {
	ds := &entity.Dataset{}
	seen := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				ds.Columns = append(ds.Columns, col)
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	sort.Strings(ds.Columns)
	return ds
}
