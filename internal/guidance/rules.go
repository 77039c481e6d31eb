// Package guidance turns a setter's free-text request into structured selection guidance
// using keyword rule tables, a token-ratio fuzzy matcher and priority conflict resolution.
package guidance

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Category separates the concerns a rule speaks to.
type Category string

// Rule categories.
const (
	CategoryGrade      Category = "grade"
	CategoryMove       Category = "move"
	CategoryStyle      Category = "style"
	CategoryConstraint Category = "constraint"
)

// Rule maps a keyword set to guidance text. Constraint rules usually carry only a note.
type Rule struct {
	Name     string   `yaml:"name" json:"name" validate:"required"`
	Category Category `yaml:"category" json:"category" validate:"required,oneof=grade move style constraint"`
	Keywords []string `yaml:"keywords" json:"keywords" validate:"required,min=1,dive,required"`
	Guidance string   `yaml:"guidance,omitempty" json:"guidance,omitempty"`
	Note     string   `yaml:"note,omitempty" json:"note,omitempty"`
	Priority int      `yaml:"priority" json:"priority" validate:"gte=0"`
}

// key identifies a rule for conflict resolution.
func (r Rule) key() string {
	return string(r.Category) + "/" + r.Name
}

// RuleSet is a versioned rule table.
type RuleSet struct {
	Version int    `yaml:"version" validate:"required,gte=1"`
	Rules   []Rule `yaml:"rules" validate:"required,min=1,dive"`
}

//go:embed rules.yaml
var defaultRules []byte

// LoadRules decodes and validates a YAML rule table.
func LoadRules(r io.Reader) (*RuleSet, error) {
	var set RuleSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil {
		return nil, &RulesError{Message: "failed to decode rule table", Cause: err}
	}

	validate := validator.New()
	if err := validate.Struct(&set); err != nil {
		return nil, &RulesError{Message: "invalid rule table", Cause: err}
	}

	seen := make(map[string]bool, len(set.Rules))
	for _, rule := range set.Rules {
		if seen[rule.key()] {
			return nil, &RulesError{Message: fmt.Sprintf("duplicate rule %s", rule.key())}
		}
		seen[rule.key()] = true
	}

	return &set, nil
}

// DefaultRules returns the embedded rule table.
func DefaultRules() (*RuleSet, error) {
	return LoadRules(bytes.NewReader(defaultRules))
}
