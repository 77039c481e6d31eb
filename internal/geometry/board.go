// Package geometry indexes a board's hold coordinates: it decodes board definitions,
// filters holds by vertical zone and summarizes them for prompt grounding.
package geometry

import (
	"math"
	"sort"
	"strconv"

	"github.com/jonathan/betabot/internal/types"
)

// Board is an immutable, id-ordered set of holds.
type Board struct {
	holds []types.Hold
	index map[string]int
}

// NewBoard builds a board from holds. When an id repeats, the last occurrence wins.
func NewBoard(holds []types.Hold) *Board {
	byID := make(map[string]types.Hold, len(holds))
	for _, h := range holds {
		byID[h.ID] = h
	}

	sorted := make([]types.Hold, 0, len(byID))
	for _, h := range byID {
		sorted = append(sorted, h)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return LessID(sorted[i].ID, sorted[j].ID)
	})

	index := make(map[string]int, len(sorted))
	for i, h := range sorted {
		index[h.ID] = i
	}

	return &Board{holds: sorted, index: index}
}

// Len returns the number of holds.
func (b *Board) Len() int {
	return len(b.holds)
}

// Holds returns a copy of the holds in id order.
func (b *Board) Holds() []types.Hold {
	out := make([]types.Hold, len(b.holds))
	copy(out, b.holds)
	return out
}

// Get looks up a hold by id.
func (b *Board) Get(id string) (types.Hold, bool) {
	i, ok := b.index[id]
	if !ok {
		return types.Hold{}, false
	}
	return b.holds[i], true
}

// Has reports whether id is a hold on this board.
func (b *Board) Has(id string) bool {
	_, ok := b.index[id]
	return ok
}

// Nearest returns the hold closest to (x, y). ok is false for an empty board.
func (b *Board) Nearest(x, y float64) (hold types.Hold, ok bool) {
	best := math.Inf(1)
	for _, h := range b.holds {
		d := math.Hypot(float64(h.X)-x, float64(h.Y)-y)
		if d < best {
			best = d
			hold = h
			ok = true
		}
	}
	return hold, ok
}

// LessID orders numeric ids numerically and everything else lexically, numbers first.
func LessID(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

// SortHoldsByID sorts holds in place using board id order.
func SortHoldsByID(holds []types.Hold) {
	sort.SliceStable(holds, func(i, j int) bool {
		return LessID(holds[i].ID, holds[j].ID)
	})
}
