package classify

import (
	"testing"

	"github.com/nmisra/clausecheck/internal/clause"
	"github.com/nmisra/clausecheck/internal/refdata"
	"github.com/nmisra/clausecheck/internal/schema"
)

func load(t *testing.T) *refdata.Set {
	t.Helper()
	ref, err := refdata.Load("")
	if err != nil {
		t.Fatalf("load refdata: %v", err)
	}
	return ref
}

const employmentContract = `EMPLOYMENT AGREEMENT

1. Appointment
The Employer hereby appoints the Employee to the designation of Senior Engineer.
The employment shall commence on the effective date, subject to a probation period.

2. Salary
The Employer shall pay the Employee a monthly salary plus provident fund contributions.

3. Termination
Either party may terminate this agreement by giving 90 days written notice.

4. Non-Compete
During employment the Employee shall not compete with the business of the Employer.
`

func TestClassifyEmployment(t *testing.T) {
	ref := load(t)
	doc := schema.Document{Text: employmentContract}
	tree := clause.New(ref).Parse(doc)
	got := New(ref).Classify(doc, &tree)
	if got.Type != schema.TypeEmployment {
		t.Errorf("type = %s, want EMPLOYMENT_AGREEMENT", got.Type)
	}
	if got.Confidence < 0 || got.Confidence > 100 {
		t.Errorf("confidence = %v, out of [0,100]", got.Confidence)
	}
	if got.FromHint {
		t.Error("FromHint = true without a hint")
	}
}

func TestClassifyNDA(t *testing.T) {
	ref := load(t)
	doc := schema.Document{Text: `NON-DISCLOSURE AGREEMENT

1. Confidentiality
The Receiving Party shall keep the Confidential Information of the Disclosing Party
secret and shall not disclose it to any third party.
`}
	tree := clause.New(ref).Parse(doc)
	got := New(ref).Classify(doc, &tree)
	if got.Type != schema.TypeNDA {
		t.Errorf("type = %s, want NON_DISCLOSURE_AGREEMENT", got.Type)
	}
}

func TestHintShortCircuits(t *testing.T) {
	ref := load(t)
	doc := schema.Document{Text: employmentContract, TypeHint: schema.TypeLease}
	tree := clause.New(ref).Parse(schema.Document{Text: employmentContract})
	got := New(ref).Classify(doc, &tree)
	if got.Type != schema.TypeLease {
		t.Errorf("type = %s, want the hinted LEASE_AGREEMENT", got.Type)
	}
	if !got.FromHint {
		t.Error("FromHint = false, want true")
	}
}

func TestInvalidHintIgnored(t *testing.T) {
	ref := load(t)
	doc := schema.Document{Text: employmentContract, TypeHint: schema.ContractType("PURCHASE_OF_MAGIC_BEANS")}
	tree := clause.New(ref).Parse(schema.Document{Text: employmentContract})
	got := New(ref).Classify(doc, &tree)
	if got.FromHint {
		t.Error("an unrecognized hint must not be trusted")
	}
	if got.Type != schema.TypeEmployment {
		t.Errorf("type = %s, want EMPLOYMENT_AGREEMENT", got.Type)
	}
}

func TestClassifyNoSignal(t *testing.T) {
	ref := load(t)
	doc := schema.Document{Text: "the quick brown fox jumps over the lazy dog"}
	tree := clause.New(ref).Parse(doc)
	got := New(ref).Classify(doc, &tree)
	if got.Type != schema.TypeUnknown {
		t.Errorf("type = %s, want UNKNOWN", got.Type)
	}
}

func TestClassifyEmpty(t *testing.T) {
	ref := load(t)
	got := New(ref).Classify(schema.Document{Text: "   "}, &schema.ClauseTree{})
	if got.Type != schema.TypeUnknown || got.Confidence != 0 {
		t.Errorf("got %+v, want UNKNOWN with zero confidence", got)
	}
}
