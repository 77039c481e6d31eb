package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/betabot/internal/types"
)

// Compact format separators: records "id:x,y" joined by "|".
const (
	recordSep = "|"
	idSep     = ":"
	coordSep  = ","
)

// ParseCompact decodes the compact "id:x,y|id:x,y" format. Empty segments are skipped and
// records with an empty id or a non-numeric coordinate are dropped; dropped counts them.
func ParseCompact(s string) (holds []types.Hold, dropped int) {
	for _, record := range strings.Split(s, recordSep) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}

		hold, ok := parseRecord(record)
		if !ok {
			dropped++
			continue
		}
		holds = append(holds, hold)
	}
	return holds, dropped
}

func parseRecord(record string) (types.Hold, bool) {
	id, coords, ok := strings.Cut(record, idSep)
	if !ok {
		return types.Hold{}, false
	}
	xs, ys, ok := strings.Cut(coords, coordSep)
	if !ok {
		return types.Hold{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return types.Hold{}, false
	}
	x, ok := parseCoord(xs)
	if !ok {
		return types.Hold{}, false
	}
	y, ok := parseCoord(ys)
	if !ok {
		return types.Hold{}, false
	}

	return types.Hold{ID: id, X: x, Y: y}, true
}

// parseCoord accepts integer or decimal text and rounds to the nearest pixel.
func parseCoord(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return RoundCoord(f)
}

// RoundCoord rounds f to the nearest pixel. NaN, infinities and values outside the int
// range fail.
func RoundCoord(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	r := math.Round(f)
	if r < math.MinInt64 || r >= math.MaxInt64 {
		return 0, false
	}
	return int(r), true
}

// FormatCompact encodes holds in the compact format, in the given order.
func FormatCompact(holds []types.Hold) string {
	var sb strings.Builder
	for i, h := range holds {
		if i > 0 {
			sb.WriteString(recordSep)
		}
		sb.WriteString(h.ID)
		sb.WriteString(idSep)
		sb.WriteString(strconv.Itoa(h.X))
		sb.WriteString(coordSep)
		sb.WriteString(strconv.Itoa(h.Y))
	}
	return sb.String()
}

// Compact encodes the whole board in id order.
func (b *Board) Compact() string {
	return FormatCompact(b.holds)
}
