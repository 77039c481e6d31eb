package synthesis

import "fmt"

// GenerationError is returned when the external generator fails or its response is unusable.
// Callers may retry; the synthesizer never does.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("route generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("route generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// BankError represents errors loading or validating a route bank.
type BankError struct {
	Source  string
	Message string
	Cause   error
}

func (e *BankError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("route bank %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("route bank %s: %s", e.Source, e.Message)
}

func (e *BankError) Unwrap() error {
	return e.Cause
}
