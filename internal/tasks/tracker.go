package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/Lattice-Labs/lattice/internal/dataset"
	"github.com/Lattice-Labs/lattice/internal/entity"
	"github.com/Lattice-Labs/lattice/internal/graph"
	"github.com/Lattice-Labs/lattice/internal/rules"
)

// Status is the stored workflow state of one entity. It only changes
// through MarkComplete, MarkIgnored and Reset.
type Status string

const (
	StatusTodo    Status = "todo"
	StatusDone    Status = "done"
	StatusIgnored Status = "ignored"
)

// Priority is derived, never stored.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityReady    Priority = "ready"
	PriorityWaiting  Priority = "waiting"
	PriorityOptional Priority = "optional"
)

// EntityStatus is the per-entity task record shown on the board.
type EntityStatus struct {
	Name             string   `json:"name"`
	Status           Status   `json:"status"`
	Priority         Priority `json:"priority"`
	Required         bool     `json:"required"`
	Exists           bool     `json:"exists"`
	ValidationPassed bool     `json:"validation_passed"`
	PreviewAvailable bool     `json:"preview_available"`
	BlockedBy        []string `json:"blocked_by,omitempty"`
	Issues           []string `json:"issues,omitempty"`
}

// Stats are completion counts over the status map.
type Stats struct {
	Total         int `json:"total"`
	Done          int `json:"done"`
	Todo          int `json:"todo"`
	Ignored       int `json:"ignored"`
	RequiredTotal int `json:"required_total"`
	RequiredDone  int `json:"required_done"`
	RequiredTodo  int `json:"required_todo"`
}

// PreviewChecker answers "is a preview available" without regenerating
// anything. dataset.Cache satisfies it.
type PreviewChecker interface {
	Has(name string) bool
}

// RejectedError reports why a mark-complete command was refused. It is a
// command outcome, not a validation finding.
type RejectedError struct {
	Entity string
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("cannot complete %s: %s", e.Entity, e.Reason)
}

// Tracker derives per-entity task status from the dependency graph, the
// aggregate validation result and the stored workflow state. The inputs
// are treated as an immutable snapshot; only the state is mutated, and
// only through the explicit commands.
type Tracker struct {
	configs  map[string]*entity.Config
	graph    *graph.Graph
	result   *rules.Result
	state    *entity.State
	previews PreviewChecker
	provider dataset.Provider
}

// NewTracker builds a tracker for one analysis pass. provider may be nil,
// in which case mark-complete can only rely on already-cached previews.
func NewTracker(configs map[string]*entity.Config, g *graph.Graph, result *rules.Result,
	state *entity.State, previews PreviewChecker, provider dataset.Provider) *Tracker {
	if result == nil {
		result = rules.NewResult()
	}
	if state == nil {
		state = &entity.State{}
	}
	return &Tracker{
		configs:  configs,
		graph:    g,
		result:   result,
		state:    state,
		previews: previews,
		provider: provider,
	}
}

// State returns the stored workflow state, so callers can persist it
// after a command.
func (t *Tracker) State() *entity.State {
	return t.state
}

// StatusFor computes the status of one entity. Unknown names are a caller
// error, distinct from validation outcomes.
func (t *Tracker) StatusFor(name string) (*EntityStatus, error) {
	if !t.known(name) {
		return nil, fmt.Errorf("unknown entity: %s", name)
	}
	return t.derive(name), nil
}

// Statuses computes the status of every known entity.
func (t *Tracker) Statuses() map[string]*EntityStatus {
	statuses := make(map[string]*EntityStatus)
	for _, name := range t.names() {
		statuses[name] = t.derive(name)
	}
	return statuses
}

// Stats counts the computed status map.
func (t *Tracker) Stats() Stats {
	var stats Stats
	for _, status := range t.Statuses() {
		stats.Total++
		switch status.Status {
		case StatusDone:
			stats.Done++
		case StatusIgnored:
			stats.Ignored++
		default:
			stats.Todo++
		}
		if status.Required {
			stats.RequiredTotal++
			switch status.Status {
			case StatusDone:
				stats.RequiredDone++
			case StatusIgnored:
			default:
				stats.RequiredTodo++
			}
		}
	}
	return stats
}

// MarkComplete moves an entity to done. It is rejected when the entity
// has outstanding error issues or no preview can be obtained; a rejected
// command leaves the stored state untouched.
func (t *Tracker) MarkComplete(ctx context.Context, name string) error {
	if !t.known(name) {
		return fmt.Errorf("unknown entity: %s", name)
	}
	cfg, exists := t.configs[name]
	if !exists {
		return &RejectedError{Entity: name, Reason: "entity is not declared in the configuration"}
	}
	if !t.result.EntityValid(name) {
		return &RejectedError{Entity: name, Reason: "entity has outstanding validation errors"}
	}
	if !t.previewObtainable(ctx, cfg) {
		return &RejectedError{Entity: name, Reason: "no preview could be obtained"}
	}
	t.state.Complete(name)
	return nil
}

// MarkIgnored moves an entity to ignored. Always allowed for known names.
func (t *Tracker) MarkIgnored(name string) error {
	if !t.known(name) {
		return fmt.Errorf("unknown entity: %s", name)
	}
	t.state.Ignore(name)
	return nil
}

// Reset returns an entity to todo from any state.
func (t *Tracker) Reset(name string) error {
	if !t.known(name) {
		return fmt.Errorf("unknown entity: %s", name)
	}
	t.state.Reset(name)
	return nil
}

func (t *Tracker) derive(name string) *EntityStatus {
	_, exists := t.configs[name]

	status := StatusTodo
	if t.state.IsCompleted(name) {
		status = StatusDone
	} else if t.state.IsIgnored(name) {
		status = StatusIgnored
	}

	es := &EntityStatus{
		Name:             name,
		Status:           status,
		Required:         t.state.IsRequired(name),
		Exists:           exists,
		ValidationPassed: exists && t.result.EntityValid(name),
		PreviewAvailable: t.previews != nil && t.previews.Has(name),
		BlockedBy:        t.blockedBy(name),
	}
	for _, issue := range t.result.ForEntity(name) {
		es.Issues = append(es.Issues, issue.Message)
	}
	es.Priority = derivePriority(es)
	return es
}

// blockedBy lists dependency and foreign-key-target entities that are not
// done themselves and either carry error issues or do not exist.
func (t *Tracker) blockedBy(name string) []string {
	cfg, ok := t.configs[name]
	if !ok {
		return nil
	}
	var blocked []string
	for _, dep := range cfg.Dependencies() {
		if t.state.IsCompleted(dep) {
			continue
		}
		_, exists := t.configs[dep]
		if !exists || !t.result.EntityValid(dep) {
			blocked = append(blocked, dep)
		}
	}
	sort.Strings(blocked)
	return blocked
}

// derivePriority is a pure function over the rest of the record, applied
// in strict precedence order.
func derivePriority(es *EntityStatus) Priority {
	switch {
	case es.Status == StatusIgnored:
		return PriorityOptional
	case es.Required && (!es.Exists || !es.ValidationPassed || !es.PreviewAvailable):
		return PriorityCritical
	case es.ValidationPassed && es.PreviewAvailable && len(es.BlockedBy) == 0:
		return PriorityReady
	case len(es.BlockedBy) > 0:
		return PriorityWaiting
	default:
		return PriorityOptional
	}
}

func (t *Tracker) previewObtainable(ctx context.Context, cfg *entity.Config) bool {
	if t.previews != nil && t.previews.Has(cfg.Name) {
		return true
	}
	if t.provider == nil {
		return false
	}
	ds, err := t.provider.Fetch(ctx, cfg)
	return err == nil && ds != nil
}

// known covers declared entities plus names tracked in the workflow
// state, so a required-but-undeclared entity still has a board entry.
func (t *Tracker) known(name string) bool {
	if _, ok := t.configs[name]; ok {
		return true
	}
	return t.state.IsRequired(name) || t.state.IsCompleted(name) || t.state.IsIgnored(name)
}

func (t *Tracker) names() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for name := range t.configs {
		add(name)
	}
	for _, name := range t.state.Required {
		add(name)
	}
	for _, name := range t.state.Completed {
		add(name)
	}
	for _, name := range t.state.Ignored {
		add(name)
	}
	sort.Strings(names)
	return names
}
