// Package classify decides the contract type from three signals: the
// type profiles' weighted vocabulary, the similarity of the document's
// clause-type distribution to each type's reference distribution, and
// the presence of each type's signature clauses. A caller-supplied hint
// short-circuits the vote.
package classify

import (
	"math"
	"strings"

	"github.com/nmisra/clausecheck/internal/refdata"
	"github.com/nmisra/clausecheck/internal/schema"
)

// Classifier holds the reference data. Safe for concurrent use.
type Classifier struct {
	ref *refdata.Set
}

// New returns a Classifier backed by ref.
func New(ref *refdata.Set) *Classifier { return &Classifier{ref: ref} }

// Signal blend. Vocabulary dominates; structure breaks close calls.
const (
	keywordWeight = 0.5
	distWeight    = 0.3
	structWeight  = 0.2
	// unknownFloor is the blended score below which no type is claimed.
	unknownFloor = 0.1
)

// Classify returns the contract type with confidence in [0,100]. A
// valid TypeHint on the document is trusted as-is.
func (c *Classifier) Classify(doc schema.Document, tree *schema.ClauseTree) schema.Classification {
	if doc.TypeHint != "" && doc.TypeHint != schema.TypeUnknown {
		if _, ok := c.ref.TypeProfiles[doc.TypeHint]; ok {
			return schema.Classification{Type: doc.TypeHint, Confidence: 90, FromHint: true}
		}
	}
	text := strings.ToLower(doc.Text)
	if strings.TrimSpace(text) == "" {
		return schema.Classification{Type: schema.TypeUnknown}
	}

	kw := make(map[schema.ContractType]float64)
	var kwMax float64
	for _, typ := range schema.ContractTypes {
		p, ok := c.ref.TypeProfiles[typ]
		if !ok {
			continue
		}
		var score float64
		for _, w := range p.Keywords {
			n := strings.Count(text, strings.ToLower(w.Phrase))
			if n > 3 {
				n = 3
			}
			score += float64(n) * w.Weight
		}
		for _, re := range p.CompiledPatterns() {
			if re.MatchString(text) {
				score += 2
			}
		}
		kw[typ] = score
		if score > kwMax {
			kwMax = score
		}
	}

	docDist := distribution(tree)
	present := tree.TypesPresent()

	best := schema.TypeUnknown
	var bestScore float64
	for _, typ := range schema.ContractTypes {
		p, ok := c.ref.TypeProfiles[typ]
		if !ok {
			continue
		}
		var kwNorm float64
		if kwMax > 0 {
			kwNorm = kw[typ] / kwMax
		}
		score := keywordWeight*kwNorm +
			distWeight*cosine(docDist, p.Distribution) +
			structWeight*signatureShare(p, present)
		switch {
		case score > bestScore:
			bestScore, best = score, typ
		case score == bestScore && best != schema.TypeUnknown && narrower(c.ref, typ, best):
			// Exact tie: prefer the more specific profile.
			best = typ
		}
	}
	if bestScore < unknownFloor {
		return schema.Classification{Type: schema.TypeUnknown, Confidence: 100 * bestScore}
	}
	conf := 100 * bestScore
	if conf > 100 {
		conf = 100
	}
	return schema.Classification{Type: best, Confidence: conf}
}

// distribution returns each clause type's share of classified clauses.
func distribution(tree *schema.ClauseTree) map[schema.ClauseType]float64 {
	counts := make(map[schema.ClauseType]float64)
	var total float64
	tree.Walk(func(cl *schema.Clause) {
		if cl.Type != schema.ClauseUnclassified {
			counts[cl.Type]++
			total++
		}
	})
	if total == 0 {
		return nil
	}
	for k := range counts {
		counts[k] /= total
	}
	return counts
}

func signatureShare(p *refdata.TypeProfile, present map[schema.ClauseType]bool) float64 {
	if len(p.SignatureClauses) == 0 {
		return 0
	}
	hit := 0
	for _, ct := range p.SignatureClauses {
		if present[ct] {
			hit++
		}
	}
	return float64(hit) / float64(len(p.SignatureClauses))
}

func narrower(ref *refdata.Set, a, b schema.ContractType) bool {
	pa, pb := ref.TypeProfiles[a], ref.TypeProfiles[b]
	return len(pa.ExpectedClauses) < len(pb.ExpectedClauses)
}

func cosine(a, b map[schema.ClauseType]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
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
