// Package entity extracts typed entities from a normalized contract
// document: parties, dates, monetary amounts in Indian conventions,
// durations, notice periods, jurisdictions, and the modal-verb triple of
// obligations, rights, and prohibitions. Extraction is pure pattern
// matching against the reference data; it never fails, it only yields
// fewer or lower-confidence entities.
package entity

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nmisra/clausecheck/internal/refdata"
	"github.com/nmisra/clausecheck/internal/schema"
)

// Extractor holds the reference data for one process lifetime. Safe for
// concurrent use.
type Extractor struct {
	ref *refdata.Set
}

// New returns an Extractor backed by ref.
func New(ref *refdata.Set) *Extractor { return &Extractor{ref: ref} }

// Extract returns every entity found in doc, sorted by span start and
// then kind. Calling it twice on the same document yields identical
// slices.
func (e *Extractor) Extract(doc schema.Document) []schema.Entity {
	text := doc.Text
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []schema.Entity
	out = append(out, extractParties(text)...)
	out = append(out, extractDates(text)...)
	out = append(out, extractAmounts(text)...)
	out = append(out, extractDurations(text)...)
	out = append(out, e.extractJurisdictions(text)...)
	out = append(out, extractModals(text)...)

	out = dedupe(out)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Span.Start != out[j].Span.Start {
			return out[i].Span.Start < out[j].Span.Start
		}
		if out[i].Span.End != out[j].Span.End {
			return out[i].Span.End < out[j].Span.End
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

func dedupe(in []schema.Entity) []schema.Entity {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, ent := range in {
		key := fmt.Sprintf("%s:%d:%d", ent.Kind, ent.Span.Start, ent.Span.End)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ent)
	}
	return out
}

func str(s string) *string { return &s }

// ---- parties ----

var (
	// Company-style names: a run of capitalized words anchored on an
	// Indian corporate suffix.
	companyRE = regexp.MustCompile(`\b((?:[A-Z][A-Za-z0-9&.\-]*\s+){1,6}(?:Private\s+Limited|Pvt\.?\s*Ltd\.?|Public\s+Limited|Limited|Ltd\.?|LLP|Corporation|Inc\.?))`)
	// Individuals introduced with an honorific.
	personRE = regexp.MustCompile(`\b(?:Mr|Ms|Mrs|Dr|Shri|Smt)\.?\s+([A-Z][a-z]+(?:\s[A-Z][a-z]+){0,3})`)
	// Defined short name following a party recital.
	aliasRE = regexp.MustCompile(`(?i)hereinafter\s+(?:referred\s+to\s+as\s+)?(?:the\s+)?[“"']([^”"']{2,40})[”"']`)
)

func extractParties(text string) []schema.Entity {
	var out []schema.Entity
	emit := func(m []int, name string, conf float64) {
		ent := schema.Entity{
			Kind:       schema.EntityParty,
			Raw:        name,
			Normalized: str(strings.Join(strings.Fields(name), " ")),
			Span:       schema.Span{Start: m[2], End: m[3]},
			Confidence: conf,
		}
		// An alias recital within a short window after the name names
		// this party for the rest of the document.
		window := text[m[3]:min(len(text), m[3]+100)]
		if am := aliasRE.FindStringSubmatch(window); am != nil {
			ent.Alias = am[1]
		}
		out = append(out, ent)
	}
	for _, m := range companyRE.FindAllStringSubmatchIndex(text, -1) {
		emit(m, text[m[2]:m[3]], 0.9)
	}
	for _, m := range personRE.FindAllStringSubmatchIndex(text, -1) {
		emit(m, text[m[2]:m[3]], 0.8)
	}
	return out
}

// ---- dates ----

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

const monthAlt = `January|February|March|April|May|June|July|August|September|October|November|December`

var (
	// Numeric dates read day-first, the Indian convention.
	numericDateRE = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	wordyDateRE   = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:day\s+of\s+)?(` + monthAlt + `)\s*,?\s*(\d{4})\b`)
	usDateRE      = regexp.MustCompile(`\b(` + monthAlt + `)\s+(\d{1,2})(?:st|nd|rd|th)?\s*,?\s+(\d{4})\b`)
)

var dateRoleCues = []struct {
	role schema.DateRole
	cues []string
}{
	// Stems, not words: "commenc" covers commence/commencing/commencement.
	{schema.DateRoleEffective, []string{"effective", "commenc", "with effect from", "w.e.f"}},
	{schema.DateRoleExpiry, []string{"expir", "valid until", "until", "end on"}},
	{schema.DateRoleExecution, []string{"executed", "signed", "entered into on", "made on", "dated"}},
}

func dateRole(text string, start int) schema.DateRole {
	window := strings.ToLower(text[max(0, start-60):start])
	for _, rc := range dateRoleCues {
		for _, cue := range rc.cues {
			if strings.Contains(window, cue) {
				return rc.role
			}
		}
	}
	return schema.DateRoleGeneral
}

func extractDates(text string) []schema.Entity {
	var out []schema.Entity
	emit := func(start, end, day int, month time.Month, year int) {
		ent := schema.Entity{
			Kind:       schema.EntityDate,
			Raw:        text[start:end],
			Span:       schema.Span{Start: start, End: end},
			Role:       dateRole(text, start),
			Confidence: 0.4,
		}
		t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		// Reject rollovers like 31/02: the round trip must agree.
		if t.Day() == day && t.Month() == month && t.Year() == year {
			ent.Normalized = str(t.Format("2006-01-02"))
			ent.Confidence = 0.9
		}
		out = append(out, ent)
	}
	for _, m := range numericDateRE.FindAllStringSubmatchIndex(text, -1) {
		day, _ := strconv.Atoi(text[m[2]:m[3]])
		mon, _ := strconv.Atoi(text[m[4]:m[5]])
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		if mon < 1 || mon > 12 {
			out = append(out, schema.Entity{
				Kind: schema.EntityDate, Raw: text[m[0]:m[1]],
				Span: schema.Span{Start: m[0], End: m[1]},
				Role: dateRole(text, m[0]), Confidence: 0.4,
			})
			continue
		}
		emit(m[0], m[1], day, time.Month(mon), year)
	}
	for _, m := range wordyDateRE.FindAllStringSubmatchIndex(text, -1) {
		day, _ := strconv.Atoi(text[m[2]:m[3]])
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		emit(m[0], m[1], day, months[strings.ToLower(text[m[4]:m[5]])], year)
	}
	for _, m := range usDateRE.FindAllStringSubmatchIndex(text, -1) {
		day, _ := strconv.Atoi(text[m[4]:m[5]])
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		emit(m[0], m[1], day, months[strings.ToLower(text[m[2]:m[3]])], year)
	}
	return out
}

// ---- amounts ----

var (
	// Currency marker followed by digits in Indian or western grouping,
	// optionally scaled by a lakh/crore word.
	markedAmountRE = regexp.MustCompile(`(?i)(?:₹|Rs\.?|INR)\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*(lakhs?|lacs?|crores?)?`)
	// Scale-word amounts without a currency marker, e.g. "5 crore rupees".
	scaledAmountRE = regexp.MustCompile(`(?i)\b([0-9][0-9,]*(?:\.[0-9]+)?)\s+(lakhs?|lacs?|crores?)(?:\s+rupees)?`)
)

func scaleFactor(word string) float64 {
	switch {
	case word == "":
		return 1
	case strings.HasPrefix(strings.ToLower(word), "l"):
		return 1e5
	default:
		return 1e7
	}
}

// normalizeAmount parses digits (commas in any grouping) times an
// optional scale word into a canonical "INR <value>" string.
func normalizeAmount(digits, scale string) (string, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64)
	if err != nil {
		return "", false
	}
	v *= scaleFactor(scale)
	return "INR " + strconv.FormatFloat(v, 'f', -1, 64), true
}

func extractAmounts(text string) []schema.Entity {
	var out []schema.Entity
	emit := func(m []int) {
		digits := text[m[2]:m[3]]
		scale := ""
		if m[4] >= 0 {
			scale = text[m[4]:m[5]]
		}
		ent := schema.Entity{
			Kind:       schema.EntityAmount,
			Raw:        strings.TrimSpace(text[m[0]:m[1]]),
			Span:       schema.Span{Start: m[0], End: m[1]},
			Confidence: 0.4,
		}
		if norm, ok := normalizeAmount(digits, scale); ok {
			ent.Normalized = str(norm)
			ent.Confidence = 0.9
		}
		out = append(out, ent)
	}
	marked := markedAmountRE.FindAllStringSubmatchIndex(text, -1)
	for _, m := range marked {
		emit(m)
	}
	for _, m := range scaledAmountRE.FindAllStringSubmatchIndex(text, -1) {
		covered := false
		for _, p := range marked {
			if m[0] >= p[0] && m[1] <= p[1] {
				covered = true
				break
			}
		}
		if !covered {
			emit(m)
		}
	}
	return out
}

// ---- durations and notice periods ----

var durationRE = regexp.MustCompile(`(?i)\b(\d+)\s*(day|week|month|year)s?\b`)

var unitDays = map[string]int{"day": 1, "week": 7, "month": 30, "year": 365}

func extractDurations(text string) []schema.Entity {
	var out []schema.Entity
	for _, m := range durationRE.FindAllStringSubmatchIndex(text, -1) {
		n, _ := strconv.Atoi(text[m[2]:m[3]])
		days := n * unitDays[strings.ToLower(text[m[4]:m[5]])]
		kind := schema.EntityDuration
		// A duration in reach of the word "notice" is a notice period.
		window := strings.ToLower(text[max(0, m[0]-50):min(len(text), m[1]+50)])
		if strings.Contains(window, "notice") {
			kind = schema.EntityNoticePeriod
		}
		out = append(out, schema.Entity{
			Kind:       kind,
			Raw:        text[m[0]:m[1]],
			Normalized: str(strconv.Itoa(days) + " days"),
			Span:       schema.Span{Start: m[0], End: m[1]},
			Confidence: 0.85,
		})
	}
	return out
}

// ---- jurisdictions ----

// The cue is case-insensitive but the captured place name is not, so a
// lowercase word after "courts at" never reads as a place.
var jurisdictionRE = regexp.MustCompile(`(?i:courts?\s+(?:at|in|of)|jurisdiction\s+of(?:\s+the\s+courts?\s+(?:at|in|of))?|seat\s+of\s+arbitration\s+(?:shall\s+be|is)(?:\s+at|\s+in)?)\s+([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`)

func (e *Extractor) extractJurisdictions(text string) []schema.Entity {
	var out []schema.Entity
	for _, m := range jurisdictionRE.FindAllStringSubmatchIndex(text, -1) {
		place := text[m[2]:m[3]]
		// Gazetteer-gated: capitalized words outside the list are not
		// place names, however plausible the cue.
		if !e.ref.InGazetteer(strings.ToLower(place)) {
			continue
		}
		out = append(out, schema.Entity{
			Kind:       schema.EntityJurisdiction,
			Raw:        place,
			Normalized: str(place),
			Span:       schema.Span{Start: m[2], End: m[3]},
			Confidence: 0.9,
		})
	}
	return out
}

// ---- obligations, rights, prohibitions, deliverables ----

var sentenceEndRE = regexp.MustCompile(`[.;]\s+|\n\n`)

// sentences splits text into rough sentence spans. Splits on sentence
// punctuation followed by whitespace and on blank lines; good enough
// for modal detection, which needs sentence scope, not grammar.
func sentences(text string) []schema.Span {
	var spans []schema.Span
	start := 0
	for _, m := range sentenceEndRE.FindAllStringIndex(text, -1) {
		if m[0] > start {
			spans = append(spans, schema.Span{Start: start, End: m[0] + 1})
		}
		start = m[1]
	}
	if start < len(text) {
		spans = append(spans, schema.Span{Start: start, End: len(text)})
	}
	return spans
}

var (
	prohibitionRE = regexp.MustCompile(`(?i)\b(?:shall\s+not|must\s+not|may\s+not|will\s+not|agrees?\s+not\s+to|is\s+prohibited\s+from|are\s+prohibited\s+from|refrain\s+from)\b`)
	obligationRE  = regexp.MustCompile(`(?i)\b(?:shall|must|agrees?\s+to|undertakes?\s+to|is\s+(?:obliged|required)\s+to|will\s+be\s+responsible\s+for)\b`)
	rightRE       = regexp.MustCompile(`(?i)\b(?:may\b|is\s+entitled\s+to|are\s+entitled\s+to|reserves?\s+the\s+right|at\s+its\s+(?:sole\s+)?option|shall\s+be\s+entitled\s+to)`)
	deliverableRE = regexp.MustCompile(`(?i)\b(?:deliverables?|shall\s+deliver|agrees?\s+to\s+deliver)\b`)
)

func extractModals(text string) []schema.Entity {
	var out []schema.Entity
	for _, sp := range sentences(text) {
		sent := text[sp.Start:sp.End]
		trimmed := strings.TrimSpace(sent)
		if len(trimmed) < 15 {
			continue
		}
		// Prohibition outranks obligation: "shall not" must never read
		// as "shall". Rights are independent, so one sentence can carry
		// both an obligation and a right.
		prohibited := prohibitionRE.MatchString(sent)
		var kind schema.EntityKind
		switch {
		case prohibited:
			kind = schema.EntityProhibition
		case obligationRE.MatchString(sent):
			kind = schema.EntityObligation
		}
		if kind != "" {
			out = append(out, schema.Entity{
				Kind:       kind,
				Raw:        trimmed,
				Span:       sp,
				Confidence: 0.75,
			})
		}
		// "may not" belongs to the prohibition above, not here.
		if !prohibited && rightRE.MatchString(sent) {
			out = append(out, schema.Entity{
				Kind:       schema.EntityRight,
				Raw:        trimmed,
				Span:       sp,
				Confidence: 0.75,
			})
		}
		if deliverableRE.MatchString(sent) {
			out = append(out, schema.Entity{
				Kind:       schema.EntityDeliverable,
				Raw:        trimmed,
				Span:       sp,
				Confidence: 0.7,
			})
		}
	}
	return out
}
