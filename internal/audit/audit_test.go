package audit

import (
	"path/filepath"
	"testing"

	"github.com/nmisra/clausecheck/internal/schema"
)

func tempLogger(t *testing.T) *Logger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func result(text string, score float64, level schema.RiskLevel) *schema.AnalysisResult {
	return &schema.AnalysisResult{
		Document:       schema.Document{Text: text},
		Classification: schema.Classification{Type: schema.TypeEmployment},
		Risk: schema.RiskAssessment{
			CompositeScore: score,
			CompositeLevel: level,
		},
	}
}

func TestLogAndRecent(t *testing.T) {
	l := tempLogger(t)

	first, err := l.LogResult(result("contract one", 0.42, schema.LevelMedium))
	if err != nil {
		t.Fatalf("log first: %v", err)
	}
	second, err := l.LogResult(result("contract two", 0.81, schema.LevelCritical))
	if err != nil {
		t.Fatalf("log second: %v", err)
	}
	if first.ID == second.ID {
		t.Error("records share an id")
	}

	recs, err := l.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	got := map[string]bool{recs[0].ID: true, recs[1].ID: true}
	if !got[first.ID] || !got[second.ID] {
		t.Error("recent does not contain both logged records")
	}
	for _, r := range recs {
		if r.DocSHA256 == "" || len(r.DocSHA256) != 64 {
			t.Errorf("record %s has malformed hash %q", r.ID, r.DocSHA256)
		}
		if r.Timestamp.IsZero() {
			t.Errorf("record %s has zero timestamp", r.ID)
		}
	}
}

func TestHashNotContent(t *testing.T) {
	l := tempLogger(t)

	a, err := l.LogResult(result("same text", 0.1, schema.LevelLow))
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	b, err := l.LogResult(result("same text", 0.1, schema.LevelLow))
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if a.DocSHA256 != b.DocSHA256 {
		t.Error("same text should hash identically")
	}
	c, err := l.LogResult(result("different text", 0.1, schema.LevelLow))
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if c.DocSHA256 == a.DocSHA256 {
		t.Error("different text should hash differently")
	}
}

func TestRecentLimit(t *testing.T) {
	l := tempLogger(t)
	for i := 0; i < 5; i++ {
		if _, err := l.LogResult(result("doc", 0.2, schema.LevelLow)); err != nil {
			t.Fatalf("log: %v", err)
		}
	}
	recs, err := l.Recent(3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("got %d records, want 3", len(recs))
	}
}

func TestRecentEmpty(t *testing.T) {
	l := tempLogger(t)
	recs, err := l.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d records from empty log", len(recs))
	}
}
