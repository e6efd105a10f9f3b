// Package llm handles LLM provider communication for the ask command:
// prompt construction grounded in a completed analysis, provider
// dispatch, and response handling. The analysis pipeline itself never
// calls into this package; a missing key or failed call degrades the
// ask command, not the analysis.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/nmisra/clausecheck/internal/schema"
)

// Provider is the interface for LLM backends.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// NewProvider is the factory for creating LLM providers. It is a package-level
// variable so tests can replace it with a mock without modifying the call site.
// Tests must restore the original value; use t.Cleanup to do so safely.
var NewProvider func(providerName, model string) (Provider, error) = defaultNewProvider

// Options configures an Ask call.
type Options struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Ask answers a free-form question about an analyzed contract. The
// prompt carries the structured findings, never the raw contract text,
// so the model can only reason over what the pipeline already found.
func Ask(ctx context.Context, res *schema.AnalysisResult, question string, opts Options) (string, error) {
	provider, err := NewProvider(opts.Provider, opts.Model)
	if err != nil {
		return "", fmt.Errorf("llm: create provider: %w", err)
	}
	answer, err := provider.Complete(ctx, systemPrompt, buildUserPrompt(res, question), opts.MaxTokens, opts.Temperature)
	if err != nil {
		return "", fmt.Errorf("llm: complete: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

const systemPrompt = `You are a contract analysis assistant. You are given the ` +
	`structured findings of a rule-based analysis of an Indian commercial ` +
	`contract: classification, clause inventory, extracted entities, risk ` +
	`scores, and compliance checklist results.

Answer the user's question using ONLY these findings. If the findings do ` +
	`not contain the information needed, say so. Do not invent clause text, ` +
	`amounts, or legal conclusions beyond the findings. You are not giving ` +
	`legal advice.`

// buildUserPrompt serializes the findings for the model.
func buildUserPrompt(res *schema.AnalysisResult, question string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "CLASSIFICATION: %s (confidence %.0f)\n", res.Classification.Type, res.Classification.Confidence)
	fmt.Fprintf(&sb, "LANGUAGE: %s\n", res.Document.Language)
	fmt.Fprintf(&sb, "OVERALL RISK: %s (%.2f)\n", res.Risk.CompositeLevel, res.Risk.CompositeScore)

	sb.WriteString("\nRISK FINDINGS:\n")
	for _, f := range res.Risk.Findings {
		fmt.Fprintf(&sb, "  %s: %s score=%.2f", f.Category, f.Level, f.Score)
		if len(f.RedFlags) > 0 {
			fmt.Fprintf(&sb, " red_flags=%s", strings.Join(f.RedFlags, "; "))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nCOMPLIANCE:\n")
	for _, c := range res.Compliance {
		fmt.Fprintf(&sb, "  %s: %s", c.Law, c.Status)
		if len(c.Violated) > 0 {
			fmt.Fprintf(&sb, " violated=%s", strings.Join(c.Violated, ","))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nCLAUSES:\n")
	res.ClauseTree.Walk(func(c *schema.Clause) {
		fmt.Fprintf(&sb, "  %s %s [%s]\n", c.Path, c.Title, c.Type)
	})
	if len(res.ClauseTree.MissingTypes) > 0 {
		fmt.Fprintf(&sb, "MISSING CLAUSES: %v\n", res.ClauseTree.MissingTypes)
	}

	sb.WriteString("\nENTITIES:\n")
	for _, e := range res.Entities {
		norm := ""
		if e.Normalized != nil {
			norm = " = " + *e.Normalized
		}
		fmt.Fprintf(&sb, "  %s: %s%s\n", e.Kind, e.Raw, norm)
	}

	fmt.Fprintf(&sb, "\nQUESTION: %s\n", question)
	return sb.String()
}

// ── Provider dispatch ─────────────────────────────────────────────────────────

// defaultNewProvider dispatches to the appropriate provider implementation.
func defaultNewProvider(providerName, model string) (Provider, error) {
	switch strings.ToLower(providerName) {
	case "anthropic", "":
		return newAnthropicProvider(model)
	case "openai":
		return newOpenAIProvider(model)
	case "google":
		return newGoogleProvider(model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", providerName)
	}
}

// ── Anthropic provider ───────────────────────────────────────────────────────

// anthropicProvider implements Provider using the Anthropic SDK.
// anthropic.Client is a value type; the SDK's NewClient returns it by value.
type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropicProvider(model string) (Provider, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("llm: ANTHROPIC_API_KEY environment variable not set")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &anthropicProvider{client: client, model: model}, nil
}

func (p *anthropicProvider) Complete(
	ctx context.Context,
	systemPrompt, userPrompt string,
	maxTokens int,
	temperature float64,
) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: messages.new: %w", err)
	}

	var parts []string
	for _, block := range msg.Content {
		// "text" is the only content type that carries assistant text
		// output; the SDK does not expose a typed constant for it.
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("anthropic: response contained no text content blocks")
	}
	return strings.Join(parts, ""), nil
}
