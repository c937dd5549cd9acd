// Package store persists proposed plans to SQLite so a presentation
// layer can later reconcile user confirmations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/prepsched/prepsched/core/model"
)

// Config defines plan persistence settings.
type Config struct {
	// Backend selects the store type: "none" or "sqlite".
	Backend string `json:"backend"`
	// Path is the SQLite database location.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "none"
	}
	if c.Path == "" {
		c.Path = "prepsched.db"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Backend != "none" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown store backend %s", c.Backend)
	}
	return nil
}

// SQLiteStore persists plans and their blocks to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures the
// schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS plans (
        id TEXT PRIMARY KEY,
        created_at INTEGER,
        strategy TEXT,
        feasible INTEGER,
        allocated_hours REAL,
        deficit_hours REAL
    );
    CREATE TABLE IF NOT EXISTS prep_blocks (
        plan_id TEXT REFERENCES plans(id),
        start_ts INTEGER,
        end_ts INTEGER,
        day TEXT
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// SavePlan writes the plan and its blocks in one transaction.
func (s *SQLiteStore) SavePlan(ctx context.Context, planID string, res model.ScheduleResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO plans (id, created_at, strategy, feasible, allocated_hours, deficit_hours)
         VALUES (?, ?, ?, ?, ?, ?)`,
		planID, time.Now().Unix(), res.Strategy, boolInt(res.Feasible), res.AllocatedHours, res.DeficitHours)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, b := range res.Blocks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO prep_blocks (plan_id, start_ts, end_ts, day) VALUES (?, ?, ?, ?)`,
			planID, b.Start.Unix(), b.End.Unix(), b.Day.Format("2006-01-02"))
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// LoadPlan reads a stored plan back, blocks in chronological order.
func (s *SQLiteStore) LoadPlan(ctx context.Context, planID string) (model.ScheduleResult, error) {
	var res model.ScheduleResult
	var feasible int
	err := s.db.QueryRowContext(ctx,
		`SELECT strategy, feasible, allocated_hours, deficit_hours FROM plans WHERE id = ?`, planID).
		Scan(&res.Strategy, &feasible, &res.AllocatedHours, &res.DeficitHours)
	if err != nil {
		return model.ScheduleResult{}, err
	}
	res.Feasible = feasible != 0

	rows, err := s.db.QueryContext(ctx,
		`SELECT start_ts, end_ts FROM prep_blocks WHERE plan_id = ? ORDER BY start_ts`, planID)
	if err != nil {
		return model.ScheduleResult{}, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var startTS, endTS int64
		if err := rows.Scan(&startTS, &endTS); err != nil {
			return model.ScheduleResult{}, err
		}
		start := time.Unix(startTS, 0).UTC()
		end := time.Unix(endTS, 0).UTC()
		res.Blocks = append(res.Blocks, model.PrepBlock{Start: start, End: end, Day: model.DayOf(start)})
	}
	return res, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
