package entity

import "fmt"

// Kind describes how an entity is materialized.
type Kind string

const (
	KindTable Kind = "table" // realized by selecting from a database table
	KindQuery Kind = "query" // realized by running a SQL query
	KindFixed Kind = "fixed" // realized from inline rows, no database needed
)

// Config is the declared configuration of one pipeline entity.
// The analysis core treats a loaded Config as an immutable snapshot.
type Config struct {
	Name        string           `yaml:"name" json:"name"`
	Kind        Kind             `yaml:"kind" json:"kind"`
	Source      string           `yaml:"source,omitempty" json:"source,omitempty"`
	Required    bool             `yaml:"required,omitempty" json:"required,omitempty"`
	NaturalKeys []string         `yaml:"natural_keys,omitempty" json:"natural_keys,omitempty"`
	Columns     []string         `yaml:"columns,omitempty" json:"columns,omitempty"`
	ForeignKeys []ForeignKey     `yaml:"foreign_keys,omitempty" json:"foreign_keys,omitempty"`
	DependsOn   []string         `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Unnest      *Unnest          `yaml:"unnest,omitempty" json:"unnest,omitempty"`
	Rows        []map[string]any `yaml:"rows,omitempty" json:"rows,omitempty"`
}

// ForeignKey declares a relationship to another entity's columns. It is
// used both for joins during materialization and for referential-integrity
// checks. LocalKeys and RemoteKeys must have the same length.
type ForeignKey struct {
	Target      string   `yaml:"target" json:"target"`
	LocalKeys   []string `yaml:"local_keys" json:"local_keys"`
	RemoteKeys  []string `yaml:"remote_keys" json:"remote_keys"`
	Join        string   `yaml:"join,omitempty" json:"join,omitempty"`
	Cardinality string   `yaml:"cardinality,omitempty" json:"cardinality,omitempty"`
}

// Unnest declares a wide-to-long transform applied after fetching. The
// ValueColumns are melted away; IDColumns plus the generated variable and
// value columns survive the transform.
type Unnest struct {
	IDColumns      []string `yaml:"id_columns" json:"id_columns"`
	ValueColumns   []string `yaml:"value_columns" json:"value_columns"`
	VariableColumn string   `yaml:"variable_column,omitempty" json:"variable_column,omitempty"`
	ValueColumn    string   `yaml:"value_column,omitempty" json:"value_column,omitempty"`
}

// Dependencies returns the union of declared depends_on names and foreign
// key targets, deduplicated, in declaration order.
func (c *Config) Dependencies() []string {
	seen := make(map[string]bool)
	var deps []string
	for _, name := range c.DependsOn {
		if name != "" && !seen[name] {
			seen[name] = true
			deps = append(deps, name)
		}
	}
	for _, fk := range c.ForeignKeys {
		if fk.Target != "" && !seen[fk.Target] {
			seen[fk.Target] = true
			deps = append(deps, fk.Target)
		}
	}
	return deps
}

// VariableColumnName returns the configured variable column or the default.
func (u *Unnest) VariableColumnName() string {
	if u.VariableColumn != "" {
		return u.VariableColumn
	}
	return "variable"
}

// ValueColumnName returns the configured value column or the default.
func (u *Unnest) ValueColumnName() string {
	if u.ValueColumn != "" {
		return u.ValueColumn
	}
	return "value"
}

// State is the small persisted workflow record for a project. Completed and
// Ignored are the only stored task facts; everything else is recomputed.
type State struct {
	Required  []string `yaml:"required,omitempty" json:"required,omitempty"`
	Completed []string `yaml:"completed,omitempty" json:"completed,omitempty"`
	Ignored   []string `yaml:"ignored,omitempty" json:"ignored,omitempty"`
}

// IsCompleted reports whether name is in the completed set.
func (s *State) IsCompleted(name string) bool {
	return contains(s.Completed, name)
}

// IsIgnored reports whether name is in the ignored set.
func (s *State) IsIgnored(name string) bool {
	return contains(s.Ignored, name)
}

// IsRequired reports whether name is in the required set.
func (s *State) IsRequired(name string) bool {
	return contains(s.Required, name)
}

// Complete adds name to the completed set and removes it from ignored.
func (s *State) Complete(name string) {
	s.Ignored = remove(s.Ignored, name)
	if !contains(s.Completed, name) {
		s.Completed = append(s.Completed, name)
	}
}

// Ignore adds name to the ignored set and removes it from completed.
func (s *State) Ignore(name string) {
	s.Completed = remove(s.Completed, name)
	if !contains(s.Ignored, name) {
		s.Ignored = append(s.Ignored, name)
	}
}

// Reset removes name from both the completed and ignored sets.
func (s *State) Reset(name string) {
	s.Completed = remove(s.Completed, name)
	s.Ignored = remove(s.Ignored, name)
}

// Validate checks invariants that do not need the rest of the project.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("entity has no name")
	}
	switch c.Kind {
	case KindTable, KindQuery, KindFixed, "":
	default:
		return fmt.Errorf("entity %s: unknown kind %q", c.Name, c.Kind)
	}
	return nil
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

func remove(list []string, name string) []string {
	out := list[:0]
	for _, n := range list {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
