package guidance

import (
	"strings"

	"github.com/jonathan/betabot/internal/types"
)

// FallbackGuidance is used when no rule with guidance text matches.
const FallbackGuidance = "Create a well-balanced route with varied hold types"

const guidanceSep = ". "

// Parser matches free text against a rule table. It is safe for concurrent use.
type Parser struct {
	rules []Rule
}

// NewParser creates a parser over set. Rule order is kept as the tie-break order.
func NewParser(set *RuleSet) *Parser {
	rules := make([]Rule, len(set.Rules))
	copy(rules, set.Rules)
	return &Parser{rules: rules}
}

// DefaultParser returns a parser over the embedded rule table.
// It panics if the embedded table is invalid, which is a build defect.
func DefaultParser() *Parser {
	set, err := DefaultRules()
	if err != nil {
		panic(err)
	}
	return NewParser(set)
}

// Rules returns a copy of the parser's rules.
func (p *Parser) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Match returns the resolved matches for text, highest priority first.
func (p *Parser) Match(text string) []Match {
	lowerText := strings.ToLower(text)
	tokens := strings.Fields(lowerText)

	var all []Match
	for _, rule := range p.rules {
		all = append(all, matchRule(rule, lowerText, tokens)...)
	}
	return resolve(all)
}

// Parse converts text into Guidance. It never fails: unmatched or empty input yields
// FallbackGuidance, and SetterNotes is always text unchanged.
func (p *Parser) Parse(text string) types.Guidance {
	resolved := p.Match(text)

	var parts, notes []string
	for _, m := range resolved {
		if m.Rule.Guidance != "" {
			parts = append(parts, m.Rule.Guidance)
		}
		if m.Rule.Note != "" {
			notes = append(notes, m.Rule.Note)
		}
	}

	selection := strings.Join(parts, guidanceSep)
	if selection == "" {
		selection = FallbackGuidance
	}

	return types.Guidance{
		SelectionGuidance: selection,
		SetterNotes:       text,
		Notes:             notes,
	}
}
