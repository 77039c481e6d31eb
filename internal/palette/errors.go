package palette

import "fmt"

// PositionError indicates a hold id with no device position code.
type PositionError struct {
	HoldID string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("no position code for hold %q", e.HoldID)
}
