// Package refdata loads and holds the read-only reference data the
// analysis pipeline runs against: clause-type keyword tables, risk
// category definitions, red-flag phrase lists, law checklists, the
// jurisdiction gazetteer, and the template corpus. A Set is constructed
// once at process start and passed by reference into every component
// call; it is never mutated afterward, so concurrent readers need no
// locking.
package refdata

import (
	"regexp"

	"github.com/nmisra/clausecheck/internal/schema"
)

// WeightedPhrase is one scored entry of a keyword table.
type WeightedPhrase struct {
	Phrase string  `yaml:"phrase"`
	Weight float64 `yaml:"weight"`
}

// RiskCategoryDef configures one of the twelve risk categories.
type RiskCategoryDef struct {
	Weight   float64  `yaml:"weight"`    // composite weight (literal, may not sum to 1)
	BaseRisk float64  `yaml:"base_risk"` // floor contribution with zero evidence
	Patterns []string `yaml:"patterns"`  // regex evidence patterns
	Keywords []string `yaml:"keywords"`  // plain substring evidence
	RedFlags []string `yaml:"red_flags"` // phrases searched contract-wide
	// ClauseTypes are clause taxonomy entries whose presence counts as
	// evidence for this category.
	ClauseTypes []schema.ClauseType `yaml:"clause_types"`

	compiled []*regexp.Regexp
}

// CompiledPatterns returns the category's successfully compiled evidence
// patterns. Patterns that failed to compile at load time are absent.
func (d *RiskCategoryDef) CompiledPatterns() []*regexp.Regexp { return d.compiled }

// PredicateKind selects how a compliance requirement is evaluated.
type PredicateKind string

const (
	// PredPatternPresent passes when any pattern matches the text.
	PredPatternPresent PredicateKind = "pattern_present"
	// PredPatternAbsent passes when no pattern matches the text.
	PredPatternAbsent PredicateKind = "pattern_absent"
	// PredClausePresent passes when a clause of ClauseType exists.
	PredClausePresent PredicateKind = "clause_present"
	// PredEntityPresent passes when an entity of EntityKind exists.
	PredEntityPresent PredicateKind = "entity_present"
	// PredConditional passes vacuously unless Condition matches the
	// text, in which case at least one pattern must also match.
	PredConditional PredicateKind = "conditional"
)

// Requirement is a single compliance checklist entry.
type Requirement struct {
	ID       string        `yaml:"id"`
	Law      schema.Law    `yaml:"law"`
	Name     string        `yaml:"name"`
	Critical bool          `yaml:"critical"`
	Kind     PredicateKind `yaml:"kind"`
	Patterns []string      `yaml:"patterns"`
	// Condition gates PredConditional requirements.
	Condition  string            `yaml:"condition"`
	ClauseType schema.ClauseType `yaml:"clause_type"`
	EntityKind schema.EntityKind `yaml:"entity_kind"`
	// AppliesTo limits the requirement to specific contract types.
	// Empty means the requirement applies to every type.
	AppliesTo []schema.ContractType `yaml:"applies_to"`

	compiled  []*regexp.Regexp
	condition *regexp.Regexp
}

// CompiledPatterns returns the requirement's compiled patterns.
func (r *Requirement) CompiledPatterns() []*regexp.Regexp { return r.compiled }

// CompiledCondition returns the compiled condition, or nil.
func (r *Requirement) CompiledCondition() *regexp.Regexp { return r.condition }

// AppliesToType reports whether the requirement binds for typ. An
// unknown type widens to every requirement.
func (r *Requirement) AppliesToType(typ schema.ContractType) bool {
	if len(r.AppliesTo) == 0 || typ == schema.TypeUnknown {
		return true
	}
	for _, t := range r.AppliesTo {
		if t == typ {
			return true
		}
	}
	return false
}

// TypeProfile carries the classification and expectation data for one
// contract type.
type TypeProfile struct {
	Keywords []WeightedPhrase `yaml:"keywords"`
	Patterns []string         `yaml:"patterns"` // strong regex indicators
	// ExpectedClauses is the clause-type set a complete contract of this
	// type should contain; drives missing-clause detection and the
	// classifier's specificity tie-break.
	ExpectedClauses []schema.ClauseType `yaml:"expected_clauses"`
	// Distribution is the reference share of each clause type in a
	// typical contract of this type. Shares need not sum to 1.
	Distribution map[schema.ClauseType]float64 `yaml:"distribution"`
	// SignatureClauses are clause types whose presence is a strong
	// structural signal for this type.
	SignatureClauses []schema.ClauseType `yaml:"signature_clauses"`

	compiled []*regexp.Regexp
}

// CompiledPatterns returns the profile's compiled indicator patterns.
func (p *TypeProfile) CompiledPatterns() []*regexp.Regexp { return p.compiled }

// Template is one entry of the comparison corpus. Its term vector is
// precomputed at load time and immutable for the process lifetime; the
// comparison vocabulary is still rebuilt per call so results depend only
// on the (document, corpus) pair.
type Template struct {
	Name        string              `yaml:"name"`
	Type        schema.ContractType `yaml:"type"`
	Text        string              `yaml:"text"`
	ClauseTypes []schema.ClauseType `yaml:"clause_types"`

	vector map[string]float64
}

// Vector returns the template's precomputed term-frequency vector.
func (t *Template) Vector() map[string]float64 { return t.vector }

// Set is the immutable reference-data bundle.
type Set struct {
	// ClauseKeywords scores each clause type's identifying vocabulary.
	ClauseKeywords map[schema.ClauseType][]WeightedPhrase `yaml:"clause_keywords"`
	// ClassifyThreshold is the minimum top keyword score for a segment
	// to receive a clause type at all.
	ClassifyThreshold float64 `yaml:"classify_threshold"`
	// VaguePhrases flag ambiguity when present without a defined-term
	// reference.
	VaguePhrases []string `yaml:"vague_phrases"`
	// DefinedTermMarkers suppress the ambiguity flag when present.
	DefinedTermMarkers []string `yaml:"defined_term_markers"`
	// Gazetteer lists Indian states and cities for jurisdiction
	// matching; capitalized tokens outside this list are not reported.
	Gazetteer []string `yaml:"gazetteer"`

	RiskCategories map[schema.RiskCategory]*RiskCategoryDef `yaml:"risk_categories"`
	Requirements   []Requirement                            `yaml:"requirements"`
	TypeProfiles   map[schema.ContractType]*TypeProfile     `yaml:"type_profiles"`
	Templates      []*Template                              `yaml:"templates"`
	// DevianceThreshold is the per-clause cosine below which a clause of
	// a template-covered type is reported structurally deviant.
	DevianceThreshold float64 `yaml:"deviance_threshold"`

	gazetteerSet map[string]bool
}

// InGazetteer reports whether the lowercase place name is known.
func (s *Set) InGazetteer(name string) bool { return s.gazetteerSet[name] }

// RequirementsFor returns the checklist entries binding for law and typ,
// in declaration order.
func (s *Set) RequirementsFor(law schema.Law, typ schema.ContractType) []Requirement {
	var out []Requirement
	for _, r := range s.Requirements {
		if r.Law == law && r.AppliesToType(typ) {
			out = append(out, r)
		}
	}
	return out
}

// ExpectedClausesFor returns the expected clause-type set for typ. For
// an unknown type it returns the union across all profiles, widening
// rather than narrowing coverage.
func (s *Set) ExpectedClausesFor(typ schema.ContractType) []schema.ClauseType {
	if p, ok := s.TypeProfiles[typ]; ok {
		return p.ExpectedClauses
	}
	seen := make(map[schema.ClauseType]bool)
	var union []schema.ClauseType
	for _, t := range schema.ContractTypes {
		p, ok := s.TypeProfiles[t]
		if !ok {
			continue
		}
		for _, ct := range p.ExpectedClauses {
			if !seen[ct] {
				seen[ct] = true
				union = append(union, ct)
			}
		}
	}
	return union
}
