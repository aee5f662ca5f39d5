package festival

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by RuleError.
var (
	// ErrMissingField means a required rule field is empty.
	ErrMissingField = errors.New("required field missing")
	// ErrInvalidValue means a field holds an unrecognised or out-of-range value.
	ErrInvalidValue = errors.New("invalid value")
	// ErrFieldNotAllowed means a field does not apply to the rule's type.
	ErrFieldNotAllowed = errors.New("field not allowed for rule type")
	// ErrDuplicateRule means two rules share a name.
	ErrDuplicateRule = errors.New("duplicate rule name")
	// ErrNoPredicate means a lunar rule constrains nothing.
	ErrNoPredicate = errors.New("lunar rule has no predicate")
)

// RuleError reports a malformed rule with its position in the table.
type RuleError struct {
	Source string // file name or "embedded"
	Index  int    // zero-based position in the table
	Rule   string // rule name, if known
	Field  string
	Err    error
}

// Error returns a message naming the source, rule and field.
func (e *RuleError) Error() string {
	name := e.Rule
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index+1)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: rule %s: %v", e.Source, name, e.Err)
	}
	return fmt.Sprintf("%s: rule %s: %s: %v", e.Source, name, e.Field, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *RuleError) Unwrap() error {
	return e.Err
}
