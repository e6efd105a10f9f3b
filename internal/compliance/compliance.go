// Package compliance evaluates a contract against the per-law
// requirement checklists. Every configured law yields a result on every
// run; a law whose checklist binds no requirement for the contract type
// is vacuously compliant. Evaluation is pure: same inputs, same results,
// no matter how often it runs.
package compliance

import (
	"strings"

	"github.com/nmisra/clausecheck/internal/refdata"
	"github.com/nmisra/clausecheck/internal/schema"
)

// Checker holds the reference data. Safe for concurrent use.
type Checker struct {
	ref *refdata.Set
}

// New returns a Checker backed by ref.
func New(ref *refdata.Set) *Checker { return &Checker{ref: ref} }

// Check evaluates every law's checklist for the classified type. An
// unknown type widens each checklist to the union across all contract
// types, flagged on the result, so uncertainty never shrinks coverage.
func (c *Checker) Check(doc schema.Document, tree *schema.ClauseTree, entities []schema.Entity, typ schema.ContractType) []schema.ComplianceResult {
	text := strings.ToLower(doc.Text)
	present := map[schema.ClauseType]bool{}
	if tree != nil {
		present = tree.TypesPresent()
	}
	kinds := make(map[schema.EntityKind]bool, len(entities))
	for _, e := range entities {
		kinds[e.Kind] = true
	}
	widened := typ == schema.TypeUnknown

	out := make([]schema.ComplianceResult, 0, len(schema.Laws))
	for _, law := range schema.Laws {
		res := schema.ComplianceResult{Law: law, Status: schema.StatusCompliant, Widened: widened}
		criticalFail := false
		for _, req := range c.ref.RequirementsFor(law, typ) {
			if satisfied(&req, text, present, kinds) {
				continue
			}
			res.Violated = append(res.Violated, req.ID)
			if req.Critical {
				criticalFail = true
			}
		}
		if criticalFail {
			res.Status = schema.StatusNonCompliant
		} else if len(res.Violated) > 0 {
			res.Status = schema.StatusPartiallyCompliant
		}
		out = append(out, res)
	}
	return out
}

func satisfied(req *refdata.Requirement, text string, present map[schema.ClauseType]bool, kinds map[schema.EntityKind]bool) bool {
	switch req.Kind {
	case refdata.PredPatternPresent:
		return anyMatch(req, text)
	case refdata.PredPatternAbsent:
		return !anyMatch(req, text)
	case refdata.PredClausePresent:
		return present[req.ClauseType]
	case refdata.PredEntityPresent:
		return kinds[req.EntityKind]
	case refdata.PredConditional:
		// Vacuously satisfied unless the condition fires.
		if req.CompiledCondition() == nil || !req.CompiledCondition().MatchString(text) {
			return true
		}
		return anyMatch(req, text)
	default:
		// An unrecognized predicate never fails the contract.
		return true
	}
}

func anyMatch(req *refdata.Requirement, text string) bool {
	for _, re := range req.CompiledPatterns() {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
