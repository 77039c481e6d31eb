// Package types provides type definitions for structured data used throughout the betabot system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Guidance is the structured form of a setter's free-text request.
type Guidance struct {
	// SelectionGuidance is the ". "-joined guidance of every resolved rule, in priority order
	SelectionGuidance string `json:"selection_guidance"`
	// SetterNotes is the verbatim request text
	SetterNotes string `json:"setter_notes"`
	// Notes holds the resolved rules' display notes (e.g. "Sit start required")
	Notes []string `json:"notes,omitempty"`
}

// Text returns the guidance and notes joined for keyword extraction.
func (g Guidance) Text() string {
	switch {
	case g.SelectionGuidance == "":
		return g.SetterNotes
	case g.SetterNotes == "":
		return g.SelectionGuidance
	default:
		return g.SelectionGuidance + " " + g.SetterNotes
	}
}
