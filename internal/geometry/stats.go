package geometry

import (
	"math"
	"sort"

	"github.com/jonathan/betabot/internal/types"
)

const (
	// sampleBand is how far from an extremum (in pixels) a hold may sit and still be sampled
	sampleBand = 50
	// maxSamples caps each sample list
	maxSamples = 3
)

// ComputeStats summarizes holds. Empty input yields zero stats.
func ComputeStats(holds []types.Hold) types.BoardStats {
	if len(holds) == 0 {
		return types.BoardStats{}
	}

	minY, maxY := holds[0].Y, holds[0].Y
	for _, h := range holds[1:] {
		minY = min(minY, h.Y)
		maxY = max(maxY, h.Y)
	}
	// The band is centered on the exact midpoint; only the reported MiddleY is rounded (half up).
	mid := float64(minY+maxY) / 2
	fromMid := func(h types.Hold) float64 { return math.Abs(float64(h.Y) - mid) }

	return types.BoardStats{
		Count:   len(holds),
		MinY:    minY,
		MaxY:    maxY,
		YRange:  maxY - minY,
		MiddleY: int(math.Floor(mid + 0.5)),
		TopHolds: sample(holds, func(h types.Hold) bool { return h.Y <= minY+sampleBand },
			func(h types.Hold) float64 { return float64(h.Y - minY) }),
		MiddleHolds: sample(holds, func(h types.Hold) bool { return fromMid(h) <= sampleBand },
			fromMid),
		BottomHolds: sample(holds, func(h types.Hold) bool { return h.Y >= maxY-sampleBand },
			func(h types.Hold) float64 { return float64(maxY - h.Y) }),
	}
}

// sample picks up to maxSamples hold ids passing keep, closest to the reference first,
// then left to right, then by id.
func sample(holds []types.Hold, keep func(types.Hold) bool, distance func(types.Hold) float64) []string {
	candidates := make([]types.Hold, 0, len(holds))
	for _, h := range holds {
		if keep(h) {
			candidates = append(candidates, h)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		di, dj := distance(candidates[i]), distance(candidates[j])
		if di != dj {
			return di < dj
		}
		if candidates[i].X != candidates[j].X {
			return candidates[i].X < candidates[j].X
		}
		return LessID(candidates[i].ID, candidates[j].ID)
	})

	n := min(maxSamples, len(candidates))
	ids := make([]string, 0, n)
	for _, h := range candidates[:n] {
		ids = append(ids, h.ID)
	}
	return ids
}
