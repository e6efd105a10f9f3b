// Package clause segments a contract into a clause tree and classifies
// each clause against the closed taxonomy. Segmentation follows the
// document's own numbering when it has one and falls back to paragraph
// breaks when it does not; either way every byte of the document belongs
// to at most one leaf span and child spans nest inside their parents.
package clause

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nmisra/clausecheck/internal/refdata"
	"github.com/nmisra/clausecheck/internal/schema"
)

// Parser holds the reference data. Safe for concurrent use.
type Parser struct {
	ref *refdata.Set
}

// New returns a Parser backed by ref.
func New(ref *refdata.Set) *Parser { return &Parser{ref: ref} }

var (
	// Decimal outline headings: "4.", "4.2", "4.2.1)" with a title after.
	outlineRE = regexp.MustCompile(`^\s{0,3}(\d+(?:\.\d+)*)[.)]?\s+(\S.*)$`)
	// Named headings: "Clause 7", "Section 3", "Article 12".
	namedRE = regexp.MustCompile(`(?i)^\s{0,3}(?:clause|section|article)\s+(\d+)[.:)]?\s*(.*)$`)
)

// open is one entry of the ancestor stack during segmentation.
type open struct {
	clause *schema.Clause
	depth  int
}

// Parse builds the clause tree for doc. MissingTypes is left empty; it
// depends on the contract type, which is not known at parse time, and is
// filled in by Missing once classification has run.
func (p *Parser) Parse(doc schema.Document) schema.ClauseTree {
	text := doc.Text
	if strings.TrimSpace(text) == "" {
		return schema.ClauseTree{}
	}
	roots := p.segment(text)
	if len(roots) == 0 {
		roots = p.paragraphs(text)
	}
	tree := schema.ClauseTree{Roots: roots}
	tree.Walk(func(c *schema.Clause) {
		p.classify(c, text)
		p.flagAmbiguity(c, text)
	})
	return tree
}

// segment scans line by line for numbered headings, maintaining a stack
// of open ancestors. A new heading at depth d closes every open clause
// at depth >= d, so spans nest by construction.
func (p *Parser) segment(text string) []*schema.Clause {
	var (
		roots []*schema.Clause
		stack []open
	)
	closeTo := func(depth, offset int) {
		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack[len(stack)-1].clause.Span.End = offset
			stack = stack[:len(stack)-1]
		}
	}
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		var path, title string
		depth := 0
		if m := outlineRE.FindStringSubmatch(strings.TrimRight(line, "\n")); m != nil {
			path, title = m[1], m[2]
			depth = strings.Count(path, ".") + 1
		} else if m := namedRE.FindStringSubmatch(strings.TrimRight(line, "\n")); m != nil {
			path, title = m[1], m[2]
			depth = 1
		}
		if depth > 0 {
			closeTo(depth, offset)
			c := &schema.Clause{
				Path:  path,
				Title: strings.TrimSpace(title),
				Span:  schema.Span{Start: offset},
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1].clause
				parent.Children = append(parent.Children, c)
			} else {
				roots = append(roots, c)
			}
			stack = append(stack, open{clause: c, depth: depth})
		}
		offset += len(line)
	}
	closeTo(0, len(text))
	dedupePaths(roots)
	return roots
}

// dedupePaths makes repeated numbering unique by suffixing duplicates,
// so paths can serve as stable keys.
func dedupePaths(roots []*schema.Clause) {
	seen := make(map[string]int)
	tree := schema.ClauseTree{Roots: roots}
	tree.Walk(func(c *schema.Clause) {
		n := seen[c.Path]
		seen[c.Path] = n + 1
		if n > 0 {
			c.Path = c.Path + "+" + strconv.Itoa(n)
		}
	})
}

// paragraphs is the structural fallback for unnumbered documents: each
// blank-line separated block becomes a flat root clause.
func (p *Parser) paragraphs(text string) []*schema.Clause {
	var roots []*schema.Clause
	start := 0
	n := 0
	flush := func(end int) {
		block := text[start:end]
		if strings.TrimSpace(block) == "" {
			start = end
			return
		}
		n++
		roots = append(roots, &schema.Clause{
			Path: strconv.Itoa(n),
			Span: schema.Span{Start: start, End: end},
		})
		start = end
	}
	for {
		i := strings.Index(text[start:], "\n\n")
		if i < 0 {
			break
		}
		flush(start + i + 2)
	}
	flush(len(text))
	return roots
}

// classify assigns a clause type by scoring the clause's title and body
// against the keyword tables. Title hits count double. The winner must
// clear the threshold; confidence is the winner's margin over the
// runner-up, so a near-tie reads as uncertainty even when the score is
// high.
func (p *Parser) classify(c *schema.Clause, text string) {
	title := strings.ToLower(c.Title)
	body := strings.ToLower(text[c.Span.Start:c.Span.End])
	var best, second float64
	bestType := schema.ClauseUnclassified
	for _, ct := range schema.ClauseTypes {
		var score float64
		for _, kw := range p.ref.ClauseKeywords[ct] {
			phrase := strings.ToLower(kw.Phrase)
			if strings.Contains(title, phrase) {
				score += 2 * kw.Weight
			} else if strings.Contains(body, phrase) {
				score += kw.Weight
			}
		}
		if score > best {
			second = best
			best, bestType = score, ct
		} else if score > second {
			second = score
		}
	}
	if best < p.ref.ClassifyThreshold {
		c.Type = schema.ClauseUnclassified
		c.Confidence = 0
		return
	}
	c.Type = bestType
	c.Confidence = (best - second) / best
}

// flagAmbiguity records vague phrases present in the clause unless the
// clause also carries a defined-term marker, which signals the phrase is
// pinned down elsewhere.
func (p *Parser) flagAmbiguity(c *schema.Clause, text string) {
	body := strings.ToLower(text[c.Span.Start:c.Span.End])
	for _, marker := range p.ref.DefinedTermMarkers {
		if strings.Contains(body, strings.ToLower(marker)) {
			return
		}
	}
	for _, vp := range p.ref.VaguePhrases {
		if strings.Contains(body, strings.ToLower(vp)) {
			c.Ambiguous = append(c.Ambiguous, vp)
		}
	}
}

// Missing returns the expected clause types absent from the tree, in a
// fixed order.
func Missing(tree *schema.ClauseTree, expected []schema.ClauseType) []schema.ClauseType {
	present := tree.TypesPresent()
	var missing []schema.ClauseType
	for _, ct := range expected {
		if !present[ct] {
			missing = append(missing, ct)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
