//go:build integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nmisra/clausecheck/internal/llm"
	"github.com/nmisra/clausecheck/internal/schema"
)

const fixtureContract = `EMPLOYMENT AGREEMENT

This Agreement is made between Acme Technologies Private Limited
(hereinafter referred to as "Company") and Mr. Rohan Sharma, dated 01/04/2024.

1. Appointment
The Company hereby appoints the Employee as a software engineer.

2. Salary
The Company shall pay the Employee a salary of Rs. 1 lakh per month.

3. Termination
The Company may terminate this agreement at any time without cause or notice.
The Employee shall give 90 days written notice before resigning.

4. Non-Compete
The Employee shall not compete with the Company for two years after termination.

5. Governing Law
This agreement is governed by the laws of India and the courts at Bengaluru
shall have exclusive jurisdiction.
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.txt")
	if err := os.WriteFile(path, []byte(fixtureContract), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir()) // keep any real ~/.clausecheck out of the run
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

type mockAskProvider struct{ answer string }

func (m *mockAskProvider) Complete(_ context.Context, _, _ string, _ int, _ float64) (string, error) {
	return m.answer, nil
}

func injectMock(t *testing.T, answer string) {
	t.Helper()
	orig := llm.NewProvider
	llm.NewProvider = func(providerName, model string) (llm.Provider, error) {
		return &mockAskProvider{answer: answer}, nil
	}
	t.Cleanup(func() { llm.NewProvider = orig })
}

func TestIntegration_AnalyzeJSON(t *testing.T) {
	out, err := run(t, "analyze", writeFixture(t), "-o", "json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var res schema.AnalysisResult
	if perr := json.Unmarshal([]byte(out), &res); perr != nil {
		t.Fatalf("parse output JSON: %v", perr)
	}
	if res.Classification.Type != schema.TypeEmployment {
		t.Errorf("type = %s, want EMPLOYMENT_AGREEMENT", res.Classification.Type)
	}
	if len(res.Risk.Findings) != len(schema.RiskCategories) {
		t.Errorf("findings = %d, want %d", len(res.Risk.Findings), len(schema.RiskCategories))
	}
	if len(res.Compliance) != len(schema.Laws) {
		t.Errorf("compliance results = %d, want %d", len(res.Compliance), len(schema.Laws))
	}
	f := res.Risk.Finding(schema.RiskTermination)
	if f == nil || len(f.RedFlags) == 0 {
		t.Error("expected a termination red flag in the fixture")
	}
}

func TestIntegration_AnalyzeMarkdown(t *testing.T) {
	out, err := run(t, "analyze", writeFixture(t), "-o", "markdown")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{"## Contract Analysis", "## Risk", "## Compliance", "EMPLOYMENT_AGREEMENT"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestIntegration_AnalyzeTypeHint(t *testing.T) {
	out, err := run(t, "analyze", writeFixture(t), "-o", "json", "--type", "LEASE_AGREEMENT")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var res schema.AnalysisResult
	if perr := json.Unmarshal([]byte(out), &res); perr != nil {
		t.Fatalf("parse output JSON: %v", perr)
	}
	if res.Classification.Type != schema.TypeLease || !res.Classification.FromHint {
		t.Errorf("classification = %+v, want hinted LEASE_AGREEMENT", res.Classification)
	}
}

func TestIntegration_AnalyzeMissingFile(t *testing.T) {
	if _, err := run(t, "analyze", filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected an error for a missing contract file")
	}
}

func TestIntegration_Ask(t *testing.T) {
	injectMock(t, "The termination clause carries the highest risk.")
	out, err := run(t, "ask", writeFixture(t), "What is the riskiest clause?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(out, "termination clause carries the highest risk") {
		t.Errorf("ask output = %q", out)
	}
}

func TestIntegration_Laws(t *testing.T) {
	out, err := run(t, "laws")
	if err != nil {
		t.Fatalf("laws: %v", err)
	}
	for _, law := range schema.Laws {
		if !strings.Contains(out, string(law)) {
			t.Errorf("laws output missing %s", law)
		}
	}
}
