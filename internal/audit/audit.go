// Package audit persists a one-row summary of every analysis run to a
// local SQLite database. The contract text itself is never stored; runs
// are identified by the SHA-256 of the normalized text, so re-analyzing
// the same document is visible in the log without retaining content.
package audit

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nmisra/clausecheck/internal/schema"
)

// Record is one audit log row.
type Record struct {
	ID            string
	Timestamp     time.Time
	DocSHA256     string
	ContractType  schema.ContractType
	RiskScore     float64
	RiskLevel     schema.RiskLevel
	LowConfidence bool
}

// Logger writes and reads audit records. Not safe for concurrent use by
// multiple processes beyond what SQLite itself provides.
type Logger struct {
	db *sql.DB
}

const createStmt = `
CREATE TABLE IF NOT EXISTS analysis_log (
	id             TEXT PRIMARY KEY,
	ts             TEXT NOT NULL,
	doc_sha256     TEXT NOT NULL,
	contract_type  TEXT NOT NULL,
	risk_score     REAL NOT NULL,
	risk_level     TEXT NOT NULL,
	low_confidence INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_log_ts ON analysis_log(ts);
`

// Open opens or creates the audit database at path.
func Open(path string) (*Logger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	if _, err := db.Exec(createStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: create schema: %w", err)
	}
	return &Logger{db: db}, nil
}

// Close releases the database handle.
func (l *Logger) Close() error { return l.db.Close() }

// LogResult records one completed analysis.
func (l *Logger) LogResult(res *schema.AnalysisResult) (Record, error) {
	sum := sha256.Sum256([]byte(res.Document.Text))
	rec := Record{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		DocSHA256:     hex.EncodeToString(sum[:]),
		ContractType:  res.Classification.Type,
		RiskScore:     res.Risk.CompositeScore,
		RiskLevel:     res.Risk.CompositeLevel,
		LowConfidence: res.LowConfidence,
	}
	_, err := l.db.Exec(
		`INSERT INTO analysis_log (id, ts, doc_sha256, contract_type, risk_score, risk_level, low_confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.Format(time.RFC3339Nano), rec.DocSHA256,
		string(rec.ContractType), rec.RiskScore, string(rec.RiskLevel), rec.LowConfidence,
	)
	if err != nil {
		return Record{}, fmt.Errorf("audit: insert: %w", err)
	}
	return rec, nil
}

// Recent returns the most recent n records, newest first.
func (l *Logger) Recent(n int) ([]Record, error) {
	rows, err := l.db.Query(
		`SELECT id, ts, doc_sha256, contract_type, risk_score, risk_level, low_confidence
		 FROM analysis_log ORDER BY ts DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var ts string
		if err := rows.Scan(&rec.ID, &ts, &rec.DocSHA256, &rec.ContractType,
			&rec.RiskScore, &rec.RiskLevel, &rec.LowConfidence); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}
