package geometry

import (
	"strings"

	"github.com/jonathan/betabot/internal/types"
)

// Predefined wall sections. Start and foothold overlap at the bottom of the wall.
var (
	ZoneStart        = types.Zone{Name: "start", MinY: 850, MaxY: 1140}
	ZoneIntermediate = types.Zone{Name: "intermediate", MinY: 300, MaxY: 850}
	ZoneFinish       = types.Zone{Name: "finish", MinY: 30, MaxY: 300}
	ZoneFoothold     = types.Zone{Name: "foothold", MinY: 950, MaxY: 1140}
)

// DefaultZones returns the predefined zones, top of the wall last.
func DefaultZones() []types.Zone {
	return []types.Zone{ZoneStart, ZoneIntermediate, ZoneFinish, ZoneFoothold}
}

// ZoneByName looks up a predefined zone, case-insensitively.
func ZoneByName(name string) (types.Zone, bool) {
	for _, z := range DefaultZones() {
		if strings.EqualFold(z.Name, strings.TrimSpace(name)) {
			return z, true
		}
	}
	return types.Zone{}, false
}

// FilterByZones returns the holds whose Y falls within any of zones, preserving input order.
// An empty zone list selects nothing.
func FilterByZones(holds []types.Hold, zones []types.Zone) []types.Hold {
	out := make([]types.Hold, 0)
	if len(zones) == 0 {
		return out
	}
	for _, h := range holds {
		for _, z := range zones {
			if z.Contains(h.Y) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}
