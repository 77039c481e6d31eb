package guidance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchRule(t *testing.T) {
	rule := Rule{Name: "tension", Category: CategoryMove, Keywords: []string{"tension", "tensiony", "tense"}, Priority: 7}

	tests := []struct {
		name       string
		text       string
		wantCount  int
		wantTopHit float64
	}{
		{name: "exact substring", text: "a tense problem", wantCount: 1, wantTopHit: 1.0},
		{name: "keyword inside longer word", text: "tensionless", wantCount: 1, wantTopHit: 1.0},
		{name: "token inside keyword", text: "tensio", wantCount: 2, wantTopHit: 6.0 / 7.0},
		{name: "ratio too low", text: "ten", wantCount: 0},
		{name: "no overlap", text: "slab", wantCount: 0},
		{name: "empty", text: "", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower := strings.ToLower(tt.text)
			matches := matchRule(rule, lower, strings.Fields(lower))
			assert.Len(t, matches, tt.wantCount)
			if tt.wantCount > 0 {
				assert.InDelta(t, tt.wantTopHit, matches[0].Confidence, 1e-9)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("crimp", "crimp"), 1e-9)
	assert.InDelta(t, 0.5, similarity("ab", "abcd"), 1e-9)
	assert.Equal(t, 0.0, similarity("", "abc"))
}

func TestResolve_PriorityThenConfidence(t *testing.T) {
	low := Rule{Name: "low", Category: CategoryStyle, Priority: 1}
	high := Rule{Name: "high", Category: CategoryGrade, Priority: 9}

	resolved := resolve([]Match{
		{Rule: low, Confidence: 1.0},
		{Rule: high, Confidence: 0.7},
		{Rule: high, Confidence: 0.9},
	})

	assert.Len(t, resolved, 2)
	assert.Equal(t, "high", resolved[0].Rule.Name)
	assert.InDelta(t, 0.9, resolved[0].Confidence, 1e-9)
	assert.Equal(t, "low", resolved[1].Rule.Name)
}

func TestResolve_IdentityIsPerCategory(t *testing.T) {
	// same name in two tables are two rules
	a := Rule{Name: "crimpy", Category: CategoryMove, Priority: 7}
	b := Rule{Name: "crimpy", Category: CategoryStyle, Priority: 6}

	assert.Len(t, resolve([]Match{{Rule: a, Confidence: 1}, {Rule: b, Confidence: 1}}), 2)
}
