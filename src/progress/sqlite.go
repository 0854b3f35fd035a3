package progress

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite keeps progress in a local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dataSourceName and
// applies the schema. ":memory:" gives a throwaway store.
func OpenSQLite(dataSourceName string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; also keeps an in-memory database on a single connection
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.InitDB(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// InitDB creates the database schema
func (s *SQLite) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction and commits when it returns nil.
func (s *SQLite) withTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit: %w", op, err)
	}
	return nil
}

func (s *SQLite) Unlocked(ctx context.Context) (int, error) {
	var lvl int
	err := s.db.QueryRowContext(ctx, `SELECT unlocked_level FROM progress WHERE id = 1`).Scan(&lvl)
	if err == sql.ErrNoRows {
		return FirstLevel, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read unlocked level: %w", err)
	}
	return lvl, nil
}

func (s *SQLite) UnlockNext(ctx context.Context, current int) (int, error) {
	var lvl int
	err := s.withTx(ctx, "unlock next level", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE progress SET unlocked_level = ?, updated_at = ?
			 WHERE id = 1 AND unlocked_level <= ?`,
			current+1, time.Now().UTC(), current)
		if err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT unlocked_level FROM progress WHERE id = 1`).Scan(&lvl)
	})
	return lvl, err
}

func (s *SQLite) Reset(ctx context.Context) error {
	return s.withTx(ctx, "reset progress", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE progress SET unlocked_level = ?, updated_at = ? WHERE id = 1`,
			FirstLevel, time.Now().UTC()); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM runs`)
		return err
	})
}

func (s *SQLite) RecordRun(ctx context.Context, r Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	return s.withTx(ctx, "record run", func(tx *sql.Tx) error {
		query := `INSERT INTO runs (
			run_id, level, name, won, reason, moves, notation, duration_ms, finished_at_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.ExecContext(ctx, query,
			r.ID, r.Level, r.Name, r.Won, r.Reason, r.Moves, r.Notation,
			r.Duration.Milliseconds(), r.FinishedAt.UTC(),
		)
		return err
	})
}

func (s *SQLite) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT run_id, level, name, won, reason, moves, notation, duration_ms, finished_at_utc
		FROM runs ORDER BY finished_at_utc DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r  Run
			ms int64
		)
		if err := rows.Scan(&r.ID, &r.Level, &r.Name, &r.Won, &r.Reason, &r.Moves, &r.Notation, &ms, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}
