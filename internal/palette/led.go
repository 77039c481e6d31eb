package palette

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jonathan/betabot/internal/types"
)

// Placement is one lit hold in the transport's LED frame.
type Placement struct {
	Position int `json:"position"`
	RoleID   int `json:"role_id"`
}

// PositionResolver translates a board hold id into the device's position code.
type PositionResolver interface {
	PositionCode(holdID string) (int, bool)
}

// PositionMap is a PositionResolver backed by an explicit table.
type PositionMap map[string]int

// PositionCode implements PositionResolver.
func (m PositionMap) PositionCode(holdID string) (int, bool) {
	code, ok := m[holdID]
	return code, ok
}

// NumericIDs treats numeric hold ids as their own position codes.
type NumericIDs struct{}

// PositionCode implements PositionResolver.
func (NumericIDs) PositionCode(holdID string) (int, bool) {
	code, err := strconv.Atoi(holdID)
	if err != nil {
		return 0, false
	}
	return code, true
}

// LEDConfig converts a route into the transport frame. A nil resolver uses NumericIDs.
func LEDConfig(route *types.Route, resolver PositionResolver) ([]Placement, error) {
	if resolver == nil {
		resolver = NumericIDs{}
	}

	placements := make([]Placement, 0, len(route.Holds))
	for _, h := range route.Holds {
		code, ok := resolver.PositionCode(h.ID)
		if !ok {
			return nil, &PositionError{HoldID: h.ID}
		}
		placements = append(placements, Placement{
			Position: code,
			RoleID:   Resolve(h.Color),
		})
	}
	return placements, nil
}

// ParsePositionMap decodes a JSON object of hold id to position code.
func ParsePositionMap(data []byte) (PositionMap, error) {
	var m PositionMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse position map: %w", err)
	}
	return m, nil
}
