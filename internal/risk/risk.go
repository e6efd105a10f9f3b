// Package risk scores a contract against the twelve fixed risk
// categories. Every run produces exactly twelve findings in a fixed
// order; a category with no evidence still appears, carrying only its
// base-risk contribution.
package risk

import (
	"strings"

	"github.com/nmisra/clausecheck/internal/refdata"
	"github.com/nmisra/clausecheck/internal/schema"
)

// Analyzer holds the reference data. Safe for concurrent use.
type Analyzer struct {
	ref *refdata.Set
}

// New returns an Analyzer backed by ref.
func New(ref *refdata.Set) *Analyzer { return &Analyzer{ref: ref} }

// Evidence blend for the final per-category score. Red flags are a
// count, not a fraction, so each one moves the score a full tenth.
const (
	evidenceShare = 0.5
	baseShare     = 0.3
	redFlagStep   = 0.1
)

// Per-signal contributions to the evidence score.
const (
	patternHit  = 0.3
	keywordHit  = 0.2
	clauseBonus = 0.25
)

// Band maps a score in [0,1] to its severity level. Lower bounds are
// inclusive.
func Band(score float64) schema.RiskLevel {
	switch {
	case score >= 0.75:
		return schema.LevelCritical
	case score >= 0.55:
		return schema.LevelHigh
	case score >= 0.30:
		return schema.LevelMedium
	default:
		return schema.LevelLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Assess scores doc against every category and aggregates the
// composite. The composite is the weight-averaged category score,
// renormalized by the actual weight sum so it stays in [0,1] whatever
// the configured weights add up to.
func (a *Analyzer) Assess(doc schema.Document, tree *schema.ClauseTree) schema.RiskAssessment {
	text := strings.ToLower(doc.Text)
	present := map[schema.ClauseType]bool{}
	if tree != nil {
		present = tree.TypesPresent()
	}

	out := schema.RiskAssessment{Findings: make([]schema.RiskFinding, 0, len(schema.RiskCategories))}
	var weightedSum, weightSum float64
	for _, cat := range schema.RiskCategories {
		def, ok := a.ref.RiskCategories[cat]
		if !ok {
			continue
		}
		f := a.score(cat, def, text, present)
		out.Findings = append(out.Findings, f)
		weightedSum += f.Score * f.Weight
		weightSum += f.Weight
	}
	if weightSum > 0 {
		out.CompositeScore = clamp01(weightedSum / weightSum)
	}
	out.CompositeLevel = Band(out.CompositeScore)
	return out
}

func (a *Analyzer) score(cat schema.RiskCategory, def *refdata.RiskCategoryDef, text string, present map[schema.ClauseType]bool) schema.RiskFinding {
	var evidence float64
	for _, re := range def.CompiledPatterns() {
		n := len(re.FindAllStringIndex(text, -1))
		if n > 3 {
			n = 3
		}
		evidence += float64(n) * patternHit
	}
	for _, kw := range def.Keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			evidence += keywordHit
		}
	}
	for _, ct := range def.ClauseTypes {
		if present[ct] {
			evidence += clauseBonus
			break
		}
	}
	evidence = clamp01(evidence)

	var flags []string
	for _, rf := range def.RedFlags {
		if strings.Contains(text, strings.ToLower(rf)) {
			flags = append(flags, rf)
		}
	}

	score := clamp01(evidenceShare*evidence + baseShare*def.BaseRisk + redFlagStep*float64(len(flags)))
	return schema.RiskFinding{
		Category:      cat,
		Weight:        def.Weight,
		BaseRisk:      def.BaseRisk,
		WeightedScore: evidence,
		Score:         score,
		RedFlags:      flags,
		Level:         Band(score),
	}
}
