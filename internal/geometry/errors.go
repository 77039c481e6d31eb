package geometry

import "fmt"

// LoadError represents a board source that is unreachable, unreadable or has no valid holds.
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("load error for %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// CalibrationError represents reference points that cannot define a transform.
type CalibrationError struct {
	Message string
}

func (e *CalibrationError) Error() string {
	return fmt.Sprintf("calibration error: %s", e.Message)
}
