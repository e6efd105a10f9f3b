package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nmisra/clausecheck/internal/analyzer"
	"github.com/nmisra/clausecheck/internal/refdata"
	"github.com/nmisra/clausecheck/internal/schema"
)

type mockProvider struct {
	answer     string
	err        error
	lastSystem string
	lastUser   string
}

func (m *mockProvider) Complete(_ context.Context, systemPrompt, userPrompt string, _ int, _ float64) (string, error) {
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt
	return m.answer, m.err
}

func installMock(t *testing.T, m *mockProvider) {
	t.Helper()
	orig := NewProvider
	NewProvider = func(providerName, model string) (Provider, error) {
		return m, nil
	}
	t.Cleanup(func() { NewProvider = orig })
}

func analyzed(t *testing.T) *schema.AnalysisResult {
	t.Helper()
	ref, err := refdata.Load("")
	if err != nil {
		t.Fatalf("load refdata: %v", err)
	}
	res := analyzer.New(ref).Analyze(`1. Penalty
A penalty of Rs. 50,000 applies for late delivery.

2. Termination
Either party may terminate this agreement with 30 days notice.
`, "")
	return &res
}

func TestAskTrimsAnswer(t *testing.T) {
	m := &mockProvider{answer: "  The penalty clause is the main risk.\n"}
	installMock(t, m)

	got, err := Ask(context.Background(), analyzed(t), "What is risky here?", Options{})
	if err != nil {
		t.Fatalf("Ask error: %v", err)
	}
	if got != "The penalty clause is the main risk." {
		t.Errorf("Ask = %q, want trimmed answer", got)
	}
}

func TestAskPromptCarriesFindingsOnly(t *testing.T) {
	m := &mockProvider{answer: "ok"}
	installMock(t, m)

	res := analyzed(t)
	if _, err := Ask(context.Background(), res, "Is the notice period adequate?", Options{}); err != nil {
		t.Fatalf("Ask error: %v", err)
	}

	for _, want := range []string{
		"QUESTION: Is the notice period adequate?",
		"RISK FINDINGS:",
		"COMPLIANCE:",
		string(schema.RiskPenalty),
	} {
		if !strings.Contains(m.lastUser, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
	// The raw contract text never leaves the analysis.
	if strings.Contains(m.lastUser, "late delivery") {
		t.Error("user prompt leaks raw contract text")
	}
	if m.lastSystem == "" {
		t.Error("system prompt not passed to provider")
	}
}

func TestAskProviderError(t *testing.T) {
	m := &mockProvider{err: errors.New("boom")}
	installMock(t, m)

	if _, err := Ask(context.Background(), analyzed(t), "q", Options{}); err == nil {
		t.Error("Ask should surface provider errors")
	}
}

func TestAskFactoryError(t *testing.T) {
	orig := NewProvider
	NewProvider = func(providerName, model string) (Provider, error) {
		return nil, errors.New("no key")
	}
	t.Cleanup(func() { NewProvider = orig })

	if _, err := Ask(context.Background(), analyzed(t), "q", Options{}); err == nil {
		t.Error("Ask should surface factory errors")
	}
}

func TestDefaultNewProviderUnknown(t *testing.T) {
	if _, err := defaultNewProvider("carrier-pigeon", ""); err == nil {
		t.Error("unknown provider should fail")
	}
}
