// Package types provides type definitions for structured data used throughout the betabot system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Hold is a fixed point on the wall. Smaller Y means physically higher.
type Hold struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// Zone is a named vertical band of the wall, bounded on Y.
type Zone struct {
	Name string `json:"name"`
	MinY int    `json:"min_y"`
	MaxY int    `json:"max_y"`
}

// Contains reports whether y falls within the zone (both bounds inclusive).
func (z Zone) Contains(y int) bool {
	return y >= z.MinY && y <= z.MaxY
}

// BoardStats summarizes a set of holds for prompt grounding.
type BoardStats struct {
	Count       int      `json:"count"`
	MinY        int      `json:"min_y"`
	MaxY        int      `json:"max_y"`
	YRange      int      `json:"y_range"`
	MiddleY     int      `json:"middle_y"`
	TopHolds    []string `json:"top_holds,omitempty"`
	MiddleHolds []string `json:"middle_holds,omitempty"`
	BottomHolds []string `json:"bottom_holds,omitempty"`
}
