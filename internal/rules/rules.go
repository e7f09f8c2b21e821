// Package rules holds the ordered name-correction table applied to the
// identity cell of every result row.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"raceresults/internal/util"
)

//go:embed default_rules.yaml
var defaultRules []byte

// Rule is one literal substitution.
type Rule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Set is a versioned, ordered list of rules. Order matters: a rule may target
// text only produced by an earlier one.
type Set struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// Default returns the rule table shipped with the binary.
func Default() (*Set, error) {
	return Parse(defaultRules)
}

// Load reads a rule table from path. An empty path yields the default table.
func Load(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return set, nil
}

func Parse(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if strings.TrimSpace(set.Version) == "" {
		return nil, errors.New("parse rules: missing version")
	}
	for i := range set.Rules {
		set.Rules[i].Pattern = norm.NFC.String(set.Rules[i].Pattern)
		set.Rules[i].Replacement = norm.NFC.String(set.Rules[i].Replacement)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// Validate rejects empty patterns and any replacement that contains a pattern
// of the set, which would make a second pass change the text again.
func (s *Set) Validate() error {
	for i, r := range s.Rules {
		if r.Pattern == "" {
			return fmt.Errorf("rule %d: empty pattern", i+1)
		}
		for j, other := range s.Rules {
			if strings.Contains(r.Replacement, other.Pattern) {
				return fmt.Errorf("rule %d: replacement %q contains pattern %q of rule %d", i+1, r.Replacement, other.Pattern, j+1)
			}
		}
	}
	return nil
}

// Apply runs every rule in order over the NFC form of text with whitespace
// collapsed. Rules that join words on a single space rely on the collapse.
func (s *Set) Apply(text string) string {
	text = util.NormalizeSpaces(norm.NFC.String(text))
	if s == nil {
		return text
	}
	for _, r := range s.Rules {
		text = strings.ReplaceAll(text, r.Pattern, r.Replacement)
	}
	return text
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rules)
}
