package domain

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"property-poster/models"
)

// SQLiteRepository is the local posting history.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository migrates db and returns a repository over it.
func NewSQLiteRepository(ctx context.Context, db *sql.DB) (*SQLiteRepository, error) {
	if err := MigrateSQLite(ctx, db); err != nil {
		return nil, err
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, run models.Run) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, engine, started_at, finished_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Engine, run.StartedAt.UTC(), run.FinishedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for i, p := range run.Results {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO results
				(run_id, position, site, success, outcome, message, listing_url, error_kind, stage, started_at, finished_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, p.Site, p.Success, string(p.Outcome), p.Message, p.ListingURL,
			string(p.ErrorKind), p.Stage, p.StartedAt.UTC(), p.FinishedAt.UTC(),
		); err != nil {
			return fmt.Errorf("insert result %s/%d: %w", run.ID, i, err)
		}
	}
	return tx.Commit()
}

// HistoryEntry is one stored result with the run it belonged to.
type HistoryEntry struct {
	RunID  string
	Result models.PostResult
}

// Recent returns the latest results, newest first. An empty site matches every site.
func (r *SQLiteRepository) Recent(ctx context.Context, site string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, site, success, outcome, message, listing_url, error_kind, stage, started_at, finished_at
		FROM results
		WHERE (? = '' OR site = ?)
		ORDER BY started_at DESC, run_id DESC, position DESC
		LIMIT ?`, site, site, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e                 HistoryEntry
			outcome, kind     string
			started, finished time.Time
		)
		if err := rows.Scan(&e.RunID, &e.Result.Site, &e.Result.Success, &outcome, &e.Result.Message,
			&e.Result.ListingURL, &kind, &e.Result.Stage, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Result.Outcome = models.Outcome(outcome)
		e.Result.ErrorKind = models.ErrorKind(kind)
		e.Result.StartedAt = started
		e.Result.FinishedAt = finished
		out = append(out, e)
	}
	return out, rows.Err()
}
