package rules

// Severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue categories.
const (
	CategoryStructure  = "structure"
	CategoryData       = "data"
	CategorySubmission = "submission"
	CategoryInternal   = "internal"
)

// Issue codes. Stable identifiers consumed by the auto-fix suggestion
// layer, keep them append-only.
const (
	CodeMissingDependency  = "MISSING_DEPENDENCY"
	CodeMissingFKTarget    = "MISSING_FK_TARGET"
	CodeRequiredField      = "REQUIRED_FIELD"
	CodeNoNaturalKey       = "NO_NATURAL_KEY"
	CodeFKKeyMismatch      = "FK_KEY_MISMATCH"
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"
	CodeMissingColumn      = "MISSING_COLUMN"
	CodeNonUniqueKeys      = "NON_UNIQUE_KEYS"
	CodeEmptyResult        = "EMPTY_RESULT"
	CodeFKColumnMissing    = "FK_COLUMN_MISSING"
	CodeFKDataIntegrity    = "FK_DATA_INTEGRITY"
	CodeTypeMismatch       = "TYPE_MISMATCH"
	CodeValidatorFailed    = "VALIDATOR_FAILED"
	CodeMissingPrimaryKey  = "MISSING_PRIMARY_KEY"
	CodeIncompatibleType   = "INCOMPATIBLE_TYPE"
	CodeMissingRequired    = "MISSING_REQUIRED_COLUMN"
	CodeExtraColumn        = "EXTRA_COLUMN"
)

// Issue is a single validation finding. Findings are always returned as
// data, never raised as errors.
type Issue struct {
	Severity    Severity `json:"severity"`
	Entity      string   `json:"entity,omitempty"`
	Field       string   `json:"field,omitempty"`
	Message     string   `json:"message"`
	Code        string   `json:"code"`
	Suggestion  string   `json:"suggestion,omitempty"`
	Category    string   `json:"category"`
	Priority    int      `json:"priority"`
	AutoFixable bool     `json:"auto_fixable,omitempty"`
}

// key identifies an issue for deduplication. Exact, case-sensitive.
func (i Issue) key() string {
	return string(i.Severity) + "|" + i.Entity + "|" + i.Field + "|" + i.Code + "|" + i.Message
}

func severityRank(s Severity) int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}
