// Package similarity compares a contract against the template corpus
// using term-frequency cosine similarity. Template vectors are built
// once at reference-data load; the document side is vectorized per call
// through the same tokenizer, so a score depends only on the document
// and the corpus.
package similarity

import (
	"math"

	"github.com/nmisra/clausecheck/internal/refdata"
	"github.com/nmisra/clausecheck/internal/schema"
)

// Matcher holds the reference data. Safe for concurrent use.
type Matcher struct {
	ref *refdata.Set
}

// New returns a Matcher backed by ref.
func New(ref *refdata.Set) *Matcher { return &Matcher{ref: ref} }

// Match scores doc against every template and reports the best match
// together with the structural diff: clause types the template expects
// but the document lacks, types the document adds, and clauses of a
// covered type whose own text diverges from the template. An empty
// corpus or empty document yields a zero result.
func (m *Matcher) Match(doc schema.Document, tree *schema.ClauseTree) schema.SimilarityResult {
	docVec := refdata.TermVector(doc.Text)
	if len(docVec) == 0 || len(m.ref.Templates) == 0 {
		return schema.SimilarityResult{}
	}

	var best *refdata.Template
	var bestScore float64
	for _, t := range m.ref.Templates {
		// Strictly greater keeps the earlier template on ties.
		if s := cosine(docVec, t.Vector()); s > bestScore || best == nil {
			best, bestScore = t, s
		}
	}

	res := schema.SimilarityResult{Template: best.Name, Score: bestScore}
	if tree == nil {
		return res
	}

	covered := make(map[schema.ClauseType]bool, len(best.ClauseTypes))
	for _, ct := range best.ClauseTypes {
		covered[ct] = true
	}
	present := tree.TypesPresent()
	for _, ct := range best.ClauseTypes {
		if !present[ct] {
			res.MissingTypes = append(res.MissingTypes, ct)
		}
	}
	// Extra types in taxonomy order for stable output.
	for _, ct := range schema.ClauseTypes {
		if present[ct] && !covered[ct] {
			res.ExtraTypes = append(res.ExtraTypes, ct)
		}
	}
	tree.Walk(func(c *schema.Clause) {
		if c.Type == schema.ClauseUnclassified || !covered[c.Type] {
			return
		}
		body := doc.Text[c.Span.Start:c.Span.End]
		if cosine(refdata.TermVector(body), best.Vector()) < m.ref.DevianceThreshold {
			res.Deviant = append(res.Deviant, schema.DeviantClause{Path: c.Path, Type: c.Type})
		}
	})
	return res
}

func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for k, va := range a {
		dot += va * b[k]
		na += va * va
	}
	for _, vb := range b {
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
