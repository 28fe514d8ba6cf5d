package rules

import "sort"

// Result is the aggregate outcome of a validation pass. Merging is
// deduplicating, associative and idempotent; merging the same issues
// twice leaves the result unchanged.
type Result struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
	Infos    []Issue `json:"infos"`

	seen map[string]bool
}

// NewResult returns an empty aggregate result.
func NewResult() *Result {
	return &Result{seen: make(map[string]bool)}
}

// Add appends an issue unless an identical one is already present.
func (r *Result) Add(issue Issue) {
	if r.seen == nil {
		r.rebuildIndex()
	}
	k := issue.key()
	if r.seen[k] {
		return
	}
	r.seen[k] = true
	switch issue.Severity {
	case SeverityError:
		r.Errors = append(r.Errors, issue)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, issue)
	default:
		r.Infos = append(r.Infos, issue)
	}
}

// Merge folds other into r, deduplicating against what r already holds.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	for _, issue := range other.Errors {
		r.Add(issue)
	}
	for _, issue := range other.Warnings {
		r.Add(issue)
	}
	for _, issue := range other.Infos {
		r.Add(issue)
	}
}

// Valid reports whether the result contains zero error-severity issues.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// All returns every issue, sorted by severity then message.
func (r *Result) All() []Issue {
	all := make([]Issue, 0, len(r.Errors)+len(r.Warnings)+len(r.Infos))
	all = append(all, r.Errors...)
	all = append(all, r.Warnings...)
	all = append(all, r.Infos...)
	sortIssues(all)
	return all
}

// ForEntity returns every issue scoped to the named entity.
func (r *Result) ForEntity(name string) []Issue {
	var out []Issue
	for _, issue := range r.All() {
		if issue.Entity == name {
			out = append(out, issue)
		}
	}
	return out
}

// EntityValid reports whether the named entity has no error issues.
func (r *Result) EntityValid(name string) bool {
	for _, issue := range r.Errors {
		if issue.Entity == name {
			return false
		}
	}
	return true
}

// Sort orders each severity bucket by severity rank then message, making
// merged output deterministic regardless of validator scheduling.
func (r *Result) Sort() {
	sortIssues(r.Errors)
	sortIssues(r.Warnings)
	sortIssues(r.Infos)
}

// Counts returns the number of errors, warnings and infos.
func (r *Result) Counts() (errors, warnings, infos int) {
	return len(r.Errors), len(r.Warnings), len(r.Infos)
}

func (r *Result) rebuildIndex() {
	r.seen = make(map[string]bool)
	for _, issue := range r.Errors {
		r.seen[issue.key()] = true
	}
	for _, issue := range r.Warnings {
		r.seen[issue.key()] = true
	}
	for _, issue := range r.Infos {
		r.seen[issue.key()] = true
	}
}

func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		ri, rj := severityRank(issues[i].Severity), severityRank(issues[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return issues[i].Message < issues[j].Message
	})
}
