package refdata

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Load reads a reference-data set from path, or the embedded defaults
// when path is empty. A missing file, malformed YAML, or an empty
// mandatory table is a fatal configuration error; individual regex
// patterns that fail to compile are dropped silently so one bad pattern
// cannot take out its whole category.
func Load(path string) (*Set, error) {
	raw := defaultYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("refdata: read %s: %w", path, err)
		}
		raw = b
	}
	var s Set
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("refdata: parse: %w", err)
	}
	if err := s.finish(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Set) finish() error {
	if len(s.ClauseKeywords) == 0 {
		return fmt.Errorf("refdata: clause_keywords table is empty")
	}
	if len(s.RiskCategories) == 0 {
		return fmt.Errorf("refdata: risk_categories table is empty")
	}
	if len(s.Requirements) == 0 {
		return fmt.Errorf("refdata: requirements table is empty")
	}
	if s.ClassifyThreshold <= 0 {
		s.ClassifyThreshold = 0.3
	}
	if s.DevianceThreshold <= 0 {
		s.DevianceThreshold = 0.12
	}
	s.gazetteerSet = make(map[string]bool, len(s.Gazetteer))
	for _, g := range s.Gazetteer {
		s.gazetteerSet[strings.ToLower(g)] = true
	}
	for _, def := range s.RiskCategories {
		def.compiled = compileAll(def.Patterns)
	}
	for i := range s.Requirements {
		r := &s.Requirements[i]
		r.compiled = compileAll(r.Patterns)
		if r.Condition != "" {
			if re, err := regexp.Compile("(?i)" + r.Condition); err == nil {
				r.condition = re
			}
		}
	}
	for _, p := range s.TypeProfiles {
		p.compiled = compileAll(p.Patterns)
	}
	for _, t := range s.Templates {
		t.vector = TermVector(t.Text)
	}
	return nil
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			continue
		}
		out = append(out, re)
	}
	return out
}

var wordRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

// stopwords excluded from term vectors. Small on purpose: legal
// vocabulary carries signal in words a general-purpose list would drop.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "by": true, "for": true, "from": true,
	"in": true, "is": true, "it": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "to": true, "with": true,
}

// TermVector builds a raw term-frequency vector over the lowercased
// word tokens of text, with stopwords removed. Both documents and
// templates are vectorized through this one function so their
// vocabularies agree.
func TermVector(text string) map[string]float64 {
	v := make(map[string]float64)
	for _, w := range wordRE.FindAllString(strings.ToLower(text), -1) {
		if stopwords[w] {
			continue
		}
		v[w]++
	}
	return v
}
