// Package types provides type definitions for structured data used throughout the betabot system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/google/uuid"

// Role is a hold's function within a route.
type Role string

// Roles in palette order.
const (
	RoleStart        Role = "start"
	RoleIntermediate Role = "intermediate"
	RoleFinish       Role = "finish"
	RoleFoot         Role = "foot"
)

// RouteHold is a single hold of a route with its assigned role and display color.
type RouteHold struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Role  Role   `json:"role"`
	Notes string `json:"notes,omitempty"`
}

// Route is the synthesized, role-colored hold set handed to the renderer and transport.
type Route struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Source      string      `json:"source"`
	Placeholder bool        `json:"placeholder,omitempty"`
	Holds       []RouteHold `json:"holds"`
}

// CountRole returns how many holds carry the given role.
func (r *Route) CountRole(role Role) int {
	n := 0
	for _, h := range r.Holds {
		if h.Role == role {
			n++
		}
	}
	return n
}
