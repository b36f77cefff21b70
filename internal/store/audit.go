package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/vcomp/internal/ir"
)

// Record is one audited compensation: a query as emitted before and after
// compensation, within one run.
type Record struct {
	ID             string `json:"id"`
	RunID          string `json:"run_id"`
	Seq            int64  `json:"seq"`
	Query          string `json:"query"`
	Dialect        string `json:"dialect"`
	OriginalSQL    string `json:"original_sql"`
	CompensatedSQL string `json:"compensated_sql"`
	Params         string `json:"params"` // canonical JSON
	Fingerprint    string `json:"fingerprint"`
	Visited        int    `json:"visited"`
	Rewritten      int    `json:"rewritten"`
	ModelVersion   string `json:"model_version"`
	ToolVersion    string `json:"tool_version"`
}

// MarshalParams renders query parameters, positional ([]any) or named
// (map[string]any), as canonical JSON for the params column.
func MarshalParams(params any) (string, error) {
	if params == nil {
		return "[]", nil
	}
	v, err := ir.FromNative(params)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	return string(data), nil
}

// RecordCompensation appends rec to the audit log and reports whether a
// row was written. ID, Seq and the version fields are filled in when
// zero. A second record with the same run and fingerprint is ignored and
// keeps the first record's id.
func (s *Store) RecordCompensation(ctx context.Context, rec *Record) (inserted bool, err error) {
	if rec.RunID == "" {
		return false, fmt.Errorf("record compensation: run id is required")
	}
	if rec.Fingerprint == "" {
		return false, fmt.Errorf("record compensation: fingerprint is required")
	}
	if rec.ID == "" {
		rec.ID = s.ids.Generate()
	}
	if rec.ModelVersion == "" {
		rec.ModelVersion = ir.ModelVersion
	}
	if rec.ToolVersion == "" {
		rec.ToolVersion = ir.ToolVersion
	}
	if rec.Params == "" {
		rec.Params = "[]"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("record compensation: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if rec.Seq == 0 {
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(seq), 0) + 1 FROM compensations WHERE run_id = ?`,
			rec.RunID,
		).Scan(&rec.Seq); err != nil {
			return false, fmt.Errorf("record compensation: next seq: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO compensations
		(id, run_id, seq, query_name, dialect, original_sql, compensated_sql, params,
		 fingerprint, visited, rewritten, model_version, tool_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, fingerprint) DO NOTHING
	`,
		rec.ID, rec.RunID, rec.Seq, rec.Query, rec.Dialect, rec.OriginalSQL, rec.CompensatedSQL,
		rec.Params, rec.Fingerprint, rec.Visited, rec.Rewritten, rec.ModelVersion, rec.ToolVersion,
	)
	if err != nil {
		return false, fmt.Errorf("record compensation: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record compensation: rows affected: %w", err)
	}
	if n == 0 {
		if err := tx.QueryRowContext(ctx,
			`SELECT id, seq FROM compensations WHERE run_id = ? AND fingerprint = ?`,
			rec.RunID, rec.Fingerprint,
		).Scan(&rec.ID, &rec.Seq); err != nil {
			return false, fmt.Errorf("record compensation: get existing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("record compensation: commit: %w", err)
	}
	return n > 0, nil
}

// ReadCompensations returns the records of one run.
// Results are ordered deterministically: ORDER BY seq ASC, id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if the run has no records.
func (s *Store) ReadCompensations(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, seq, query_name, dialect, original_sql, compensated_sql, params,
		       fingerprint, visited, rewritten, model_version, tool_version
		FROM compensations
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query compensations: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compensations: %w", err)
	}
	return records, nil
}

// ListRuns returns every run id, oldest first. UUIDv7 ids sort by
// creation time.
func (s *Store) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT run_id FROM compensations
		ORDER BY run_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var rec Record
	err := rows.Scan(
		&rec.ID, &rec.RunID, &rec.Seq, &rec.Query, &rec.Dialect, &rec.OriginalSQL, &rec.CompensatedSQL,
		&rec.Params, &rec.Fingerprint, &rec.Visited, &rec.Rewritten, &rec.ModelVersion, &rec.ToolVersion,
	)
	if err != nil {
		return Record{}, fmt.Errorf("scan compensation: %w", err)
	}
	return rec, nil
}
