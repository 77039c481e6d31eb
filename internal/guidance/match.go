package guidance

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// minTokenSimilarity is the length ratio a token must exceed to count as a fuzzy hit.
const minTokenSimilarity = 0.6

// Match records one rule hit against the input text.
type Match struct {
	Rule       Rule    `json:"rule"`
	Keyword    string  `json:"keyword"`
	Token      string  `json:"token,omitempty"`
	Confidence float64 `json:"confidence"`
}

// matchRule returns every hit of rule's keywords in text. lowerText and tokens are the
// lowercased input and its whitespace-delimited tokens.
//
// A keyword contained in the text is an exact hit (confidence 1). Otherwise each token that
// contains, or is contained in, the keyword scores min(len)/max(len) and counts above 0.6.
func matchRule(rule Rule, lowerText string, tokens []string) []Match {
	var matches []Match
	for _, keyword := range rule.Keywords {
		lowerKeyword := strings.ToLower(keyword)
		if lowerKeyword == "" {
			continue
		}

		if strings.Contains(lowerText, lowerKeyword) {
			matches = append(matches, Match{Rule: rule, Keyword: lowerKeyword, Confidence: 1.0})
			continue
		}

		for _, token := range tokens {
			if !strings.Contains(token, lowerKeyword) && !strings.Contains(lowerKeyword, token) {
				continue
			}
			if sim := similarity(token, lowerKeyword); sim > minTokenSimilarity {
				matches = append(matches, Match{Rule: rule, Keyword: lowerKeyword, Token: token, Confidence: sim})
			}
		}
	}
	return matches
}

// similarity is the shorter length over the longer length, in runes.
func similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	return float64(min(la, lb)) / float64(max(la, lb))
}

// resolve orders matches by priority then confidence and keeps the first match per rule.
func resolve(matches []Match) []Match {
	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rule.Priority != sorted[j].Rule.Priority {
			return sorted[i].Rule.Priority > sorted[j].Rule.Priority
		}
		return sorted[i].Confidence > sorted[j].Confidence
	})

	resolved := make([]Match, 0, len(sorted))
	seen := make(map[string]bool)
	for _, m := range sorted {
		if seen[m.Rule.key()] {
			continue
		}
		seen[m.Rule.key()] = true
		resolved = append(resolved, m)
	}
	return resolved
}
