package geometry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/betabot/internal/types"
)

// circle is one entry of the verbose circles JSON board definition.
type circle struct {
	CX *float64 `json:"cx"`
	CY *float64 `json:"cy"`
	R  *float64 `json:"r,omitempty"`
}

// ParseCirclesJSON decodes the verbose board definition {"<id>": {"cx": .., "cy": ..}}.
// Entries with a missing or non-numeric coordinate are dropped and counted.
func ParseCirclesJSON(data []byte) (holds []types.Hold, dropped int, err error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("failed to parse circles JSON: %w", err)
	}

	for id, entry := range raw {
		var c circle
		if err := json.Unmarshal(entry, &c); err != nil || c.CX == nil || c.CY == nil || strings.TrimSpace(id) == "" {
			dropped++
			continue
		}
		x, okX := RoundCoord(*c.CX)
		y, okY := RoundCoord(*c.CY)
		if !okX || !okY {
			dropped++
			continue
		}
		holds = append(holds, types.Hold{ID: strings.TrimSpace(id), X: x, Y: y})
	}

	SortHoldsByID(holds)
	return holds, dropped, nil
}

// CirclesJSON encodes holds in the verbose circles format sent to the external generator.
func CirclesJSON(holds []types.Hold) ([]byte, error) {
	out := make(map[string]map[string]int, len(holds))
	for _, h := range holds {
		out[h.ID] = map[string]int{"cx": h.X, "cy": h.Y}
	}
	return json.Marshal(out)
}

// ParseSVG extracts holds from SVG markup containing <circle id=".." cx=".." cy=".."> elements.
// Circles without an id or with non-numeric centers are dropped and counted.
func ParseSVG(data []byte) (holds []types.Hold, dropped int, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse SVG: %w", err)
	}

	doc.Find("circle").Each(func(_ int, s *goquery.Selection) {
		id := strings.TrimSpace(s.AttrOr("id", ""))
		x, xOK := parseCoord(s.AttrOr("cx", ""))
		y, yOK := parseCoord(s.AttrOr("cy", ""))
		if id == "" || !xOK || !yOK {
			dropped++
			return
		}
		holds = append(holds, types.Hold{ID: id, X: x, Y: y})
	})

	return holds, dropped, nil
}
