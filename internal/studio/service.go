package studio

import (
	"context"

	"github.com/Lattice-Labs/lattice/internal/analysis"
	"github.com/Lattice-Labs/lattice/internal/config"
	"github.com/Lattice-Labs/lattice/internal/tasks"
)

// Service re-runs the analysis per request so the board always reflects
// the files on disk. Projects are small; the pass is cheap without data.
type Service struct {
	cfg *config.Config
}

func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// analyze runs one pass. withData is best-effort: when the database is
// unreachable the structural pass still serves the board.
func (s *Service) analyze(ctx context.Context, withData bool) (*analysis.Analysis, error) {
	a, err := analysis.Run(ctx, s.cfg, analysis.Options{WithData: withData})
	if err != nil && withData {
		return analysis.Run(ctx, s.cfg, analysis.Options{})
	}
	return a, err
}

// Complete marks an entity done and persists the workflow state.
func (s *Service) Complete(ctx context.Context, name string) error {
	a, err := s.analyze(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Tracker.MarkComplete(ctx, name); err != nil {
		return err
	}
	return a.Store.SaveState(a.Tracker.State())
}

// Ignore marks an entity ignored and persists the workflow state.
func (s *Service) Ignore(ctx context.Context, name string) error {
	a, err := s.analyze(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Tracker.MarkIgnored(name); err != nil {
		return err
	}
	return a.Store.SaveState(a.Tracker.State())
}

// Reset returns an entity to todo and persists the workflow state.
func (s *Service) Reset(ctx context.Context, name string) error {
	a, err := s.analyze(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Tracker.Reset(name); err != nil {
		return err
	}
	return a.Store.SaveState(a.Tracker.State())
}

// Board is the combined status payload served to the UI.
type Board struct {
	Statuses map[string]*tasks.EntityStatus `json:"statuses"`
	Stats    tasks.Stats                    `json:"completion_stats"`
}

// Board computes the task board.
func (s *Service) Board(ctx context.Context) (*Board, error) {
	a, err := s.analyze(ctx, false)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	return &Board{
		Statuses: a.Tracker.Statuses(),
		Stats:    a.Tracker.Stats(),
	}, nil
}
