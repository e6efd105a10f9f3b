// Package render produces output from a fully assembled
// schema.AnalysisResult.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nmisra/clausecheck/internal/schema"
)

// RenderJSON produces a pretty-printed JSON representation of the result.
// The output round-trips through json.Unmarshal back to an equal result.
func RenderJSON(res *schema.AnalysisResult) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("render: nil result")
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// RenderMarkdown produces a GitHub-flavoured Markdown summary of the
// result, suitable for review comments or terminal output. Every risk
// category and every law present in the result will appear in the output.
func RenderMarkdown(res *schema.AnalysisResult) string {
	if res == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString("## Contract Analysis\n\n")
	fmt.Fprintf(&sb, "**Type:** %s (%.0f%% confidence)  \n",
		res.Classification.Type, res.Classification.Confidence)
	fmt.Fprintf(&sb, "**Language:** %s  \n", res.Document.Language)
	fmt.Fprintf(&sb, "**Overall risk:** %s (%.2f)\n\n",
		res.Risk.CompositeLevel, res.Risk.CompositeScore)
	if res.LowConfidence {
		sb.WriteString("> Low-confidence analysis: the input was empty or outside the supported language.\n\n")
	}

	if len(res.Risk.Findings) > 0 {
		sb.WriteString("## Risk\n\n")
		sb.WriteString("| Category | Level | Score | Red Flags |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, f := range res.Risk.Findings {
			fmt.Fprintf(&sb, "| %s | %s | %.2f | %s |\n",
				f.Category, f.Level, f.Score, mdEscape(strings.Join(f.RedFlags, "; ")))
		}
		sb.WriteString("\n")
	}

	if len(res.Compliance) > 0 {
		sb.WriteString("## Compliance\n\n")
		sb.WriteString("| Law | Status | Violated |\n")
		sb.WriteString("|---|---|---|\n")
		for _, c := range res.Compliance {
			law := string(c.Law)
			if c.Widened {
				law += " *"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n",
				law, c.Status, mdEscape(strings.Join(c.Violated, ", ")))
		}
		sb.WriteString("\n")
		for _, c := range res.Compliance {
			if c.Widened {
				sb.WriteString("\\* contract type unknown; full checklist applied\n\n")
				break
			}
		}
	}

	if len(res.ClauseTree.Roots) > 0 {
		sb.WriteString("## Clauses\n\n")
		res.ClauseTree.Walk(func(c *schema.Clause) {
			indent := strings.Repeat("  ", strings.Count(c.Path, "."))
			line := fmt.Sprintf("%s- **%s** %s [%s]", indent, c.Path, mdEscape(c.Title), c.Type)
			if len(c.Ambiguous) > 0 {
				line += fmt.Sprintf(" (ambiguous: %s)", mdEscape(strings.Join(c.Ambiguous, ", ")))
			}
			sb.WriteString(line + "\n")
		})
		sb.WriteString("\n")
	}
	if len(res.ClauseTree.MissingTypes) > 0 {
		sb.WriteString("**Missing clauses:** ")
		for i, ct := range res.ClauseTree.MissingTypes {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "`%s`", ct)
		}
		sb.WriteString("\n\n")
	}

	if res.Similarity.Template != "" {
		sb.WriteString("## Template Similarity\n\n")
		fmt.Fprintf(&sb, "Closest template **%s** at %.2f cosine similarity.\n\n",
			res.Similarity.Template, res.Similarity.Score)
		for _, d := range res.Similarity.Deviant {
			fmt.Fprintf(&sb, "- clause %s (%s) deviates from the template\n", d.Path, d.Type)
		}
		if len(res.Similarity.Deviant) > 0 {
			sb.WriteString("\n")
		}
	}

	if len(res.Entities) > 0 {
		sb.WriteString("## Entities\n\n")
		sb.WriteString("| Kind | Raw | Normalized |\n")
		sb.WriteString("|---|---|---|\n")
		for _, e := range res.Entities {
			norm := ""
			if e.Normalized != nil {
				norm = *e.Normalized
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", e.Kind, mdEscape(truncate(e.Raw, 80)), mdEscape(norm))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// mdEscape replaces characters that would break Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
