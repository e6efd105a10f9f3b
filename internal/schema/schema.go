// Package schema defines all canonical data types for the clausecheck
// analysis output format.
package schema

// Language is the declared language of the input text.
type Language string

const (
	LangEN    Language = "EN"
	LangHI    Language = "HI"
	LangMixed Language = "MIXED"
)

// ContractType is the closed set of recognized contract categories.
type ContractType string

const (
	TypeEmployment   ContractType = "EMPLOYMENT_AGREEMENT"
	TypeVendor       ContractType = "VENDOR_CONTRACT"
	TypeLease        ContractType = "LEASE_AGREEMENT"
	TypePartnership  ContractType = "PARTNERSHIP_DEED"
	TypeService      ContractType = "SERVICE_AGREEMENT"
	TypeNDA          ContractType = "NON_DISCLOSURE_AGREEMENT"
	TypeConsultancy  ContractType = "CONSULTANCY_AGREEMENT"
	TypeSupply       ContractType = "SUPPLY_AGREEMENT"
	TypeFranchise    ContractType = "FRANCHISE_AGREEMENT"
	TypeJointVenture ContractType = "JOINT_VENTURE_AGREEMENT"
	TypeUnknown      ContractType = "UNKNOWN"
)

// ContractTypes lists every concrete contract type (excluding UNKNOWN)
// in a fixed order.
var ContractTypes = []ContractType{
	TypeEmployment, TypeVendor, TypeLease, TypePartnership, TypeService,
	TypeNDA, TypeConsultancy, TypeSupply, TypeFranchise, TypeJointVenture,
}

// ClauseType is the closed clause taxonomy. A segment that scores below
// the classification threshold stays UNCLASSIFIED.
type ClauseType string

const (
	ClauseDefinitions     ClauseType = "DEFINITIONS"
	ClauseScope           ClauseType = "SCOPE"
	ClausePayment         ClauseType = "PAYMENT"
	ClauseDelivery        ClauseType = "DELIVERY"
	ClauseWarranty        ClauseType = "WARRANTY"
	ClauseIndemnity       ClauseType = "INDEMNITY"
	ClauseLiability       ClauseType = "LIABILITY"
	ClauseConfidentiality ClauseType = "CONFIDENTIALITY"
	ClauseIPRights        ClauseType = "IP_RIGHTS"
	ClauseTerm            ClauseType = "TERM"
	ClauseTermination     ClauseType = "TERMINATION"
	ClauseDispute         ClauseType = "DISPUTE"
	ClauseForceMajeure    ClauseType = "FORCE_MAJEURE"
	ClauseAssignment      ClauseType = "ASSIGNMENT"
	ClauseNotices         ClauseType = "NOTICES"
	ClauseGoverningLaw    ClauseType = "GOVERNING_LAW"
	ClauseEntireAgreement ClauseType = "ENTIRE_AGREEMENT"
	ClauseAmendment       ClauseType = "AMENDMENT"
	ClauseSeverability    ClauseType = "SEVERABILITY"
	ClauseWaiver          ClauseType = "WAIVER"
	ClauseNonCompete      ClauseType = "NON_COMPETE"
	ClauseDataProtection  ClauseType = "DATA_PROTECTION"
	ClauseUnclassified    ClauseType = "UNCLASSIFIED"
)

// ClauseTypes lists every concrete clause type (excluding UNCLASSIFIED)
// in taxonomy order; iteration over clause types goes through this slice
// so ties and listings resolve the same way everywhere.
var ClauseTypes = []ClauseType{
	ClauseDefinitions, ClauseScope, ClausePayment, ClauseDelivery,
	ClauseWarranty, ClauseIndemnity, ClauseLiability, ClauseConfidentiality,
	ClauseIPRights, ClauseTerm, ClauseTermination, ClauseDispute,
	ClauseForceMajeure, ClauseAssignment, ClauseNotices, ClauseGoverningLaw,
	ClauseEntireAgreement, ClauseAmendment, ClauseSeverability, ClauseWaiver,
	ClauseNonCompete, ClauseDataProtection,
}

// EntityKind tags an extracted entity.
type EntityKind string

const (
	EntityParty        EntityKind = "PARTY"
	EntityDate         EntityKind = "DATE"
	EntityAmount       EntityKind = "AMOUNT"
	EntityDuration     EntityKind = "DURATION"
	EntityJurisdiction EntityKind = "JURISDICTION"
	EntityObligation   EntityKind = "OBLIGATION"
	EntityRight        EntityKind = "RIGHT"
	EntityProhibition  EntityKind = "PROHIBITION"
	EntityNoticePeriod EntityKind = "NOTICE_PERIOD"
	EntityDeliverable  EntityKind = "DELIVERABLE"
)

// DateRole refines a DATE entity from its surrounding context.
type DateRole string

const (
	DateRoleEffective DateRole = "EFFECTIVE"
	DateRoleExpiry    DateRole = "EXPIRY"
	DateRoleExecution DateRole = "EXECUTION"
	DateRoleGeneral   DateRole = "GENERAL"
)

// RiskCategory identifies one of the twelve fixed risk categories.
type RiskCategory string

const (
	RiskPenalty         RiskCategory = "PENALTY"
	RiskIndemnity       RiskCategory = "INDEMNITY"
	RiskTermination     RiskCategory = "TERMINATION"
	RiskArbitration     RiskCategory = "ARBITRATION"
	RiskAutoRenewal     RiskCategory = "AUTO_RENEWAL"
	RiskNonCompete      RiskCategory = "NON_COMPETE"
	RiskIPTransfer      RiskCategory = "IP_TRANSFER"
	RiskLiabilityLimit  RiskCategory = "LIABILITY_LIMITATION"
	RiskConfidentiality RiskCategory = "CONFIDENTIALITY"
	RiskDataProtection  RiskCategory = "DATA_PROTECTION"
	RiskPaymentTerms    RiskCategory = "PAYMENT_TERMS"
	RiskWarranty        RiskCategory = "WARRANTY"
)

// RiskCategories lists all twelve categories in report order.
var RiskCategories = []RiskCategory{
	RiskPenalty, RiskIndemnity, RiskTermination, RiskArbitration,
	RiskAutoRenewal, RiskNonCompete, RiskIPTransfer, RiskLiabilityLimit,
	RiskConfidentiality, RiskDataProtection, RiskPaymentTerms, RiskWarranty,
}

// RiskLevel is the banded severity of a risk score.
type RiskLevel string

const (
	LevelLow      RiskLevel = "LOW"
	LevelMedium   RiskLevel = "MEDIUM"
	LevelHigh     RiskLevel = "HIGH"
	LevelCritical RiskLevel = "CRITICAL"
)

// Law identifies a compliance checklist.
type Law string

const (
	LawContractAct        Law = "INDIAN_CONTRACT_ACT_1872"
	LawITAct              Law = "IT_ACT_2000"
	LawArbitrationAct     Law = "ARBITRATION_CONCILIATION_ACT"
	LawLabour             Law = "LABOUR_LAWS"
	LawConsumerProtection Law = "CONSUMER_PROTECTION_ACT"
	LawCompaniesAct       Law = "COMPANIES_ACT_2013"
)

// Laws lists every checklist in report order.
var Laws = []Law{
	LawContractAct, LawITAct, LawArbitrationAct,
	LawLabour, LawConsumerProtection, LawCompaniesAct,
}

// ComplianceStatus is the per-law evaluation outcome.
type ComplianceStatus string

const (
	StatusCompliant          ComplianceStatus = "COMPLIANT"
	StatusPartiallyCompliant ComplianceStatus = "PARTIALLY_COMPLIANT"
	StatusNonCompliant       ComplianceStatus = "NON_COMPLIANT"
)

// Span locates a finding in the normalized source text as a half-open
// byte range [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether s fully contains other.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether s and other share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Document is the normalized analysis input. Immutable for the run.
type Document struct {
	Text     string       `json:"text"`
	Language Language     `json:"language"`
	TypeHint ContractType `json:"type_hint,omitempty"`
}

// Clause is one node of the clause tree. Child spans are subsets of the
// parent span; sibling spans never overlap; paths are unique per document.
type Clause struct {
	Path       string     `json:"path"` // e.g. "1.1.2", or "3" for flat segments
	Span       Span       `json:"span"`
	Title      string     `json:"title,omitempty"`
	Type       ClauseType `json:"type"`
	Confidence float64    `json:"confidence"` // [0,1] margin over runner-up
	Ambiguous  []string   `json:"ambiguous_phrases,omitempty"`
	Children   []*Clause  `json:"children,omitempty"`
}

// ClauseTree is the parsed document structure plus missing-clause results.
type ClauseTree struct {
	Roots []*Clause `json:"roots"`
	// MissingTypes are clause types expected for the contract type but
	// absent from the tree.
	MissingTypes []ClauseType `json:"missing_types,omitempty"`
}

// Walk visits every clause in depth-first document order.
func (t *ClauseTree) Walk(fn func(*Clause)) {
	var rec func(cs []*Clause)
	rec = func(cs []*Clause) {
		for _, c := range cs {
			fn(c)
			rec(c.Children)
		}
	}
	rec(t.Roots)
}

// TypesPresent returns the set of clause types assigned anywhere in the tree.
func (t *ClauseTree) TypesPresent() map[ClauseType]bool {
	present := make(map[ClauseType]bool)
	t.Walk(func(c *Clause) {
		if c.Type != ClauseUnclassified {
			present[c.Type] = true
		}
	})
	return present
}

// Entity is a typed extraction. Normalized is nil when the raw match
// could not be parsed into a canonical value; such entities carry low
// confidence instead of being dropped.
type Entity struct {
	Kind       EntityKind `json:"kind"`
	Raw        string     `json:"raw"`
	Normalized *string    `json:"normalized,omitempty"`
	Span       Span       `json:"span"`
	Confidence float64    `json:"confidence"`
	// Role is set for DATE entities only.
	Role DateRole `json:"role,omitempty"`
	// Alias is set for PARTY entities introduced with a defined short name.
	Alias string `json:"alias,omitempty"`
}

// RiskFinding is the scored outcome for one category.
type RiskFinding struct {
	Category      RiskCategory `json:"category"`
	Weight        float64      `json:"weight"`
	BaseRisk      float64      `json:"base_risk"`
	WeightedScore float64      `json:"weighted_score"` // evidence signal, [0,1]
	Score         float64      `json:"score"`          // final per-category score, [0,1]
	RedFlags      []string     `json:"red_flags,omitempty"`
	Level         RiskLevel    `json:"level"`
}

// RiskAssessment aggregates exactly twelve findings plus the composite.
type RiskAssessment struct {
	Findings       []RiskFinding `json:"findings"`
	CompositeScore float64       `json:"composite_score"`
	CompositeLevel RiskLevel     `json:"composite_level"`
}

// Finding returns the finding for cat, or nil if absent.
func (a *RiskAssessment) Finding(cat RiskCategory) *RiskFinding {
	for i := range a.Findings {
		if a.Findings[i].Category == cat {
			return &a.Findings[i]
		}
	}
	return nil
}

// ComplianceResult is the evaluation of one law's checklist.
type ComplianceResult struct {
	Law      Law              `json:"law"`
	Status   ComplianceStatus `json:"status"`
	Violated []string         `json:"violated_requirements,omitempty"`
	// Widened is true when the contract type was unknown and the union
	// of all contract types' requirements was applied.
	Widened bool `json:"widened,omitempty"`
}

// Classification is the contract-type decision with confidence in [0,100].
type Classification struct {
	Type       ContractType `json:"type"`
	Confidence float64      `json:"confidence"`
	// FromHint is true when the caller-supplied hint was used directly.
	FromHint bool `json:"from_hint,omitempty"`
}

// DeviantClause names a clause whose text diverges structurally from the
// best-matching template's corresponding clause.
type DeviantClause struct {
	Path string     `json:"path"`
	Type ClauseType `json:"type"`
}

// SimilarityResult compares the document against the template corpus.
type SimilarityResult struct {
	Template     string          `json:"template"` // best-matching template name
	Score        float64         `json:"score"`    // cosine similarity, [0,1]
	MissingTypes []ClauseType    `json:"missing_types,omitempty"`
	ExtraTypes   []ClauseType    `json:"extra_types,omitempty"`
	Deviant      []DeviantClause `json:"deviant,omitempty"`
}

// AnalysisResult is the aggregated output of one analysis run. All
// fields are value objects owned by the run; nothing is shared or
// persisted across runs.
type AnalysisResult struct {
	Document       Document           `json:"document"`
	ClauseTree     ClauseTree         `json:"clause_tree"`
	Entities       []Entity           `json:"entities"`
	Classification Classification     `json:"classification"`
	Risk           RiskAssessment     `json:"risk"`
	Compliance     []ComplianceResult `json:"compliance"`
	Similarity     SimilarityResult   `json:"similarity"`
	// LowConfidence marks a degraded run (empty or unsupported input).
	LowConfidence bool `json:"low_confidence,omitempty"`
}
