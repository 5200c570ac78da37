package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	core "github.com/kilianp07/ecocommute/core/history"
)

// SQLiteStore persists history records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := []string{
		`CREATE TABLE IF NOT EXISTS score_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        ts INTEGER NOT NULL,
        legs INTEGER NOT NULL,
        distance_km REAL NOT NULL,
        emissions_kg REAL NOT NULL,
        score REAL NOT NULL
    );`,
		`CREATE INDEX IF NOT EXISTS score_history_ts ON score_history (ts);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
			}
			return nil, err
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts the record.
func (s *SQLiteStore) Add(ctx context.Context, r core.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO score_history (session_id, ts, legs, distance_km, emissions_kg, score)
        VALUES (?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Time.UnixNano(), r.Legs, r.DistanceKm, r.EmissionsKg, r.Score)
	return err
}

// Query returns records matching q ordered by time.
func (s *SQLiteStore) Query(ctx context.Context, q core.Query) ([]core.Record, error) {
	var args []any
	query := `SELECT session_id, ts, legs, distance_km, emissions_kg, score FROM score_history WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	if q.SessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, q.SessionID)
	}
	query += ` ORDER BY ts, id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := []core.Record{}
	for rows.Next() {
		var r core.Record
		var ts int64
		if err := rows.Scan(&r.SessionID, &ts, &r.Legs, &r.DistanceKm, &r.EmissionsKg, &r.Score); err != nil {
			return nil, err
		}
		r.Time = time.Unix(0, ts).UTC()
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
