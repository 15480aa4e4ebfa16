package domain

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"property-poster/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS posting_runs (
	id          TEXT PRIMARY KEY,
	engine      TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS posting_results (
	run_id      TEXT NOT NULL REFERENCES posting_runs(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	site        TEXT NOT NULL,
	success     BOOLEAN NOT NULL,
	outcome     TEXT NOT NULL,
	message     TEXT NOT NULL,
	listing_url TEXT,
	error_kind  TEXT,
	stage       TEXT,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, position)
);`

// OpenPostgres connects with lib/pq and pings the server.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	return db, nil
}

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates the history tables when missing.
func NewPostgresRepository(ctx context.Context, db *sql.DB) (*PostgresRepository, error) {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("ensure postgres schema: %w", err)
	}
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Save(ctx context.Context, run models.Run) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO posting_runs (id, engine, started_at, finished_at) VALUES ($1, $2, $3, $4)`,
		run.ID, run.Engine, run.StartedAt, run.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO posting_results
		(run_id, position, site, success, outcome, message, listing_url, error_kind, stage, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, p := range run.Results {
		_, err := stmt.ExecContext(
			ctx,
			run.ID,
			i,
			p.Site,
			p.Success,
			string(p.Outcome),
			p.Message,
			nullString(p.ListingURL),
			nullString(string(p.ErrorKind)),
			nullString(p.Stage),
			p.StartedAt,
			p.FinishedAt,
		)
		if err != nil {
			return fmt.Errorf("insert result %s/%d: %w", run.ID, i, err)
		}
	}

	return tx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
