package validator

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError indicates a blocking validation failure.
	SeverityError Severity = iota
	// SeverityWarning indicates a non-blocking issue.
	SeverityWarning
	// SeverityInfo indicates an informational note.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Issue is a single problem with one input.
type Issue struct {
	Severity Severity `json:"severity"`
	// Field is the input key, e.g. "vulkan_version". Empty for general issues.
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	// Value is the offending input value.
	Value any `json:"value,omitempty"`
	// Hint suggests a fix.
	Hint string `json:"hint,omitempty"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	if i.Field != "" {
		sb.WriteString(i.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Result aggregates validation issues in the order they were added.
type Result struct {
	Issues []Issue `json:"issues"`
}

// Add appends an issue.
func (r *Result) Add(i Issue) {
	r.Issues = append(r.Issues, i)
}

// AddError adds an error issue to the result.
func (r *Result) AddError(field, message string, value any) {
	r.Add(Issue{Severity: SeverityError, Field: field, Message: message, Value: value})
}

// AddWarning adds a warning issue to the result.
func (r *Result) AddWarning(field, message string, value any) {
	r.Add(Issue{Severity: SeverityWarning, Field: field, Message: message, Value: value})
}

// AddInfo adds an info issue to the result.
func (r *Result) AddInfo(field, message string, value any) {
	r.Add(Issue{Severity: SeverityInfo, Field: field, Message: message, Value: value})
}

// HasErrors returns true if any issue has SeverityError.
func (r *Result) HasErrors() bool {
	return len(r.filter(SeverityError)) > 0
}

// HasWarnings returns true if any issue has SeverityWarning.
func (r *Result) HasWarnings() bool {
	return len(r.filter(SeverityWarning)) > 0
}

// Errors returns the issues with SeverityError.
func (r *Result) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the issues with SeverityWarning.
func (r *Result) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *Result) filter(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			res = append(res, i)
		}
	}
	return res
}

// Err combines the error issues into one error matching
// errors.ErrInvalidInput, or returns nil when there are none. Issue hints are
// attached as error hints.
func (r *Result) Err() error {
	var combined error
	for _, i := range r.Errors() {
		var err error = i
		if i.Hint != "" {
			err = errors.WithHint(err, i.Hint)
		}
		combined = errors.CombineErrors(combined, errors.Mark(err, errors.ErrInvalidInput))
	}
	return combined
}
