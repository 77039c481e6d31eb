package guidance

import "fmt"

// RulesError represents a rule table that cannot be decoded or fails validation.
type RulesError struct {
	Message string
	Cause   error
}

func (e *RulesError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rules error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rules error: %s", e.Message)
}

func (e *RulesError) Unwrap() error {
	return e.Cause
}
