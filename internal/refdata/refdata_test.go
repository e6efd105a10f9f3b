package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nmisra/clausecheck/internal/schema"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if got := len(s.ClauseKeywords); got != len(schema.ClauseTypes) {
		t.Errorf("clause keyword tables = %d, want %d", got, len(schema.ClauseTypes))
	}
	for _, cat := range schema.RiskCategories {
		if _, ok := s.RiskCategories[cat]; !ok {
			t.Errorf("risk category %s missing from defaults", cat)
		}
	}
	for _, law := range schema.Laws {
		if len(s.RequirementsFor(law, schema.TypeUnknown)) == 0 {
			t.Errorf("law %s has no requirements", law)
		}
	}
	for _, typ := range schema.ContractTypes {
		if _, ok := s.TypeProfiles[typ]; !ok {
			t.Errorf("contract type %s has no profile", typ)
		}
	}
	if len(s.Templates) == 0 {
		t.Fatal("no templates in defaults")
	}
	for _, tmpl := range s.Templates {
		if len(tmpl.Vector()) == 0 {
			t.Errorf("template %s has an empty vector", tmpl.Name)
		}
	}
	if !s.InGazetteer("mumbai") {
		t.Error("gazetteer should contain mumbai")
	}
	if s.InGazetteer("gotham") {
		t.Error("gazetteer should not contain gotham")
	}
}

func TestDefaultWeightsAndBaseRisks(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	want := map[schema.RiskCategory]struct{ weight, base float64 }{
		schema.RiskPenalty:         {0.15, 0.6},
		schema.RiskIndemnity:       {0.15, 0.5},
		schema.RiskTermination:     {0.12, 0.7},
		schema.RiskArbitration:     {0.10, 0.4},
		schema.RiskAutoRenewal:     {0.10, 0.5},
		schema.RiskNonCompete:      {0.12, 0.6},
		schema.RiskIPTransfer:      {0.13, 0.6},
		schema.RiskLiabilityLimit:  {0.08, 0.5},
		schema.RiskConfidentiality: {0.08, 0.4},
		schema.RiskDataProtection:  {0.10, 0.5},
		schema.RiskPaymentTerms:    {0.08, 0.3},
		schema.RiskWarranty:        {0.07, 0.4},
	}
	for cat, w := range want {
		def := s.RiskCategories[cat]
		if def == nil {
			t.Errorf("%s: missing", cat)
			continue
		}
		if def.Weight != w.weight {
			t.Errorf("%s weight = %v, want %v", cat, def.Weight, w.weight)
		}
		if def.BaseRisk != w.base {
			t.Errorf("%s base risk = %v, want %v", cat, def.BaseRisk, w.base)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

const minimalYAML = `
clause_keywords:
  PAYMENT:
    - {phrase: "payment", weight: 1.0}
risk_categories:
  PENALTY:
    weight: 0.15
    base_risk: 0.6
    patterns: ["penalty of", "(unclosed"]
requirements:
  - id: r1
    law: LABOUR_LAWS
    name: "one"
    kind: pattern_present
    patterns: ["notice"]
`

func TestLoadDropsBadPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.yaml")
	if err := os.WriteFile(path, []byte(minimalYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	def := s.RiskCategories[schema.RiskPenalty]
	// Two patterns configured, one of them invalid.
	if got := len(def.CompiledPatterns()); got != 1 {
		t.Errorf("compiled patterns = %d, want 1", got)
	}
}

func TestLoadRejectsEmptyTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("clause_keywords: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should reject empty mandatory tables")
	}
}

func TestAppliesToType(t *testing.T) {
	r := Requirement{AppliesTo: []schema.ContractType{schema.TypeEmployment}}
	if !r.AppliesToType(schema.TypeEmployment) {
		t.Error("should apply to the listed type")
	}
	if r.AppliesToType(schema.TypeLease) {
		t.Error("should not apply to an unlisted type")
	}
	// Unknown widens to everything.
	if !r.AppliesToType(schema.TypeUnknown) {
		t.Error("should apply to UNKNOWN")
	}
	open := Requirement{}
	if !open.AppliesToType(schema.TypeLease) {
		t.Error("empty applies_to should bind every type")
	}
}

func TestExpectedClausesForUnknownIsUnion(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	union := s.ExpectedClausesFor(schema.TypeUnknown)
	seen := make(map[schema.ClauseType]bool)
	for _, ct := range union {
		seen[ct] = true
	}
	for _, typ := range schema.ContractTypes {
		for _, ct := range s.ExpectedClausesFor(typ) {
			if !seen[ct] {
				t.Errorf("union misses %s expected by %s", ct, typ)
			}
		}
	}
}

func TestTermVector(t *testing.T) {
	v := TermVector("The penalty and the Penalty of delay")
	if v["the"] != 0 {
		t.Error("stopword should be excluded")
	}
	if v["penalty"] != 2 {
		t.Errorf("penalty count = %v, want 2", v["penalty"])
	}
	if len(TermVector("")) != 0 {
		t.Error("empty text should vectorize to empty")
	}
}
