// Package analyzer wires the pipeline: preprocess, then entity
// extraction and clause parsing in parallel, then classification, then
// risk, compliance, and similarity in parallel. Stages share nothing but
// their immutable inputs, so the fan-out needs no locking and the output
// is identical to a sequential run.
package analyzer

import (
	"sync"

	"github.com/nmisra/clausecheck/internal/classify"
	"github.com/nmisra/clausecheck/internal/clause"
	"github.com/nmisra/clausecheck/internal/compliance"
	"github.com/nmisra/clausecheck/internal/entity"
	"github.com/nmisra/clausecheck/internal/preprocess"
	"github.com/nmisra/clausecheck/internal/refdata"
	"github.com/nmisra/clausecheck/internal/risk"
	"github.com/nmisra/clausecheck/internal/schema"
	"github.com/nmisra/clausecheck/internal/similarity"
)

// Analyzer runs the full pipeline over one document at a time. Safe for
// concurrent use; every call owns its result.
type Analyzer struct {
	ref        *refdata.Set
	entities   *entity.Extractor
	clauses    *clause.Parser
	classifier *classify.Classifier
	risk       *risk.Analyzer
	compliance *compliance.Checker
	similarity *similarity.Matcher
}

// New builds an Analyzer over ref.
func New(ref *refdata.Set) *Analyzer {
	return &Analyzer{
		ref:        ref,
		entities:   entity.New(ref),
		clauses:    clause.New(ref),
		classifier: classify.New(ref),
		risk:       risk.New(ref),
		compliance: compliance.New(ref),
		similarity: similarity.New(ref),
	}
}

// Analyze normalizes raw and runs every stage. Analysis never fails:
// empty or unsupported input degrades to a LowConfidence result with
// every section present but empty or base-valued.
func (a *Analyzer) Analyze(raw string, hint schema.ContractType) schema.AnalysisResult {
	doc, ok := preprocess.Prepare(raw, hint)
	res := schema.AnalysisResult{Document: doc}
	if !ok {
		res.LowConfidence = true
		res.Classification = schema.Classification{Type: schema.TypeUnknown}
		res.Risk = a.risk.Assess(doc, nil)
		res.Compliance = a.compliance.Check(doc, nil, nil, schema.TypeUnknown)
		return res
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		res.Entities = a.entities.Extract(doc)
	}()
	go func() {
		defer wg.Done()
		res.ClauseTree = a.clauses.Parse(doc)
	}()
	wg.Wait()

	res.Classification = a.classifier.Classify(doc, &res.ClauseTree)
	res.ClauseTree.MissingTypes = clause.Missing(&res.ClauseTree, a.ref.ExpectedClausesFor(res.Classification.Type))
	if doc.Language == schema.LangHI {
		// The pattern tables are English; a Hindi document still gets a
		// full result shape, just not a trustworthy one.
		res.LowConfidence = true
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		res.Risk = a.risk.Assess(doc, &res.ClauseTree)
	}()
	go func() {
		defer wg.Done()
		res.Compliance = a.compliance.Check(doc, &res.ClauseTree, res.Entities, res.Classification.Type)
	}()
	go func() {
		defer wg.Done()
		res.Similarity = a.similarity.Match(doc, &res.ClauseTree)
	}()
	wg.Wait()

	return res
}
