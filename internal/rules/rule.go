package rules

import (
	"github.com/Lattice-Labs/lattice/internal/entity"
	"github.com/Lattice-Labs/lattice/internal/graph"
)

// Rule is one independently testable check. IsSatisfiedBy inspects the
// subject, records findings on the rule, and reports whether the subject
// passed. Rules accumulate state, so the composite builds a fresh
// instance per pass via a factory.
type Rule interface {
	IsSatisfiedBy(subject any, ctx *Context) bool
	Result() *Result
}

// Context is the shared read-only material a pass runs against. It is
// built by the caller and handed to the composite; rules never reach for
// globals.
type Context struct {
	Configs map[string]*entity.Config
	Graph   *graph.Graph

	// Tuning for data-aware validators.
	FKErrorThreshold float64 // unmatched fraction above which FK orphans become errors
	SampleLimit      int     // max offending samples quoted per issue
}

// NewContext builds a Context with the default tuning.
func NewContext(configs map[string]*entity.Config, g *graph.Graph) *Context {
	return &Context{
		Configs:          configs,
		Graph:            g,
		FKErrorThreshold: 0.5,
		SampleLimit:      5,
	}
}

// Composite runs one fresh instance of every registered rule against every
// subject and merges the findings into a single aggregate result.
type Composite struct {
	factories []func() Rule
}

// NewComposite builds a composite validator from an explicit rule list.
func NewComposite(factories ...func() Rule) *Composite {
	return &Composite{factories: factories}
}

// Validate runs all rules against all subjects and returns the merged,
// deduplicated, sorted aggregate.
func (c *Composite) Validate(subjects []any, ctx *Context) *Result {
	result := NewResult()
	for _, factory := range c.factories {
		rule := factory()
		for _, subject := range subjects {
			rule.IsSatisfiedBy(subject, ctx)
		}
		result.Merge(rule.Result())
	}
	result.Sort()
	return result
}

// collector gives rules the accumulated message lists the contract asks
// for; rule implementations embed it.
type collector struct {
	result *Result
}

func (c *collector) Result() *Result {
	if c.result == nil {
		c.result = NewResult()
	}
	return c.result
}

func (c *collector) add(issue Issue) {
	c.Result().Add(issue)
}
