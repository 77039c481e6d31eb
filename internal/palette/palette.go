// Package palette defines the fixed four-role LED palette and the LED boundary contract.
package palette

import (
	"strings"

	"github.com/jonathan/betabot/internal/types"
)

// Entry is one palette slot. Its index in Palette is the role id sent to the board.
type Entry struct {
	Role  types.Role
	Color string
}

// Palette is the fixed set of colors the board LEDs render, indexed by role id.
var Palette = [4]Entry{
	{Role: types.RoleStart, Color: "#00FF00"},
	{Role: types.RoleIntermediate, Color: "#0000FF"},
	{Role: types.RoleFinish, Color: "#FF00FF"},
	{Role: types.RoleFoot, Color: "#FFFF00"},
}

// Role ids.
const (
	StartID        = 0
	IntermediateID = 1
	FinishID       = 2
	FootID         = 3
)

// ColorFor returns the palette color of a role, or the intermediate color for unknown roles.
func ColorFor(role types.Role) string {
	return Palette[IDFor(role)].Color
}

// IDFor returns the role id of a role, or IntermediateID for unknown roles.
func IDFor(role types.Role) int {
	for i, e := range Palette {
		if e.Role == role {
			return i
		}
	}
	return IntermediateID
}

// Resolve maps a color string such as "#ff00ff" or "FF00FF" to its palette index.
// Colors outside the palette resolve to IntermediateID.
func Resolve(color string) int {
	if id, ok := Lookup(color); ok {
		return id
	}
	return IntermediateID
}

// Lookup is Resolve without the fallback.
func Lookup(color string) (int, bool) {
	normalized := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	for i, e := range Palette {
		if strings.TrimPrefix(e.Color, "#") == normalized {
			return i, true
		}
	}
	return 0, false
}

// IsMember reports whether color is exactly one of the palette colors.
func IsMember(color string) bool {
	for _, e := range Palette {
		if e.Color == color {
			return true
		}
	}
	return false
}
