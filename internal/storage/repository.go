// Package storage is the SQLite-backed ledger store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"memorizer/internal/core"
	"memorizer/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer; one connection keeps payout and inserts serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) ListShifts(ctx context.Context) ([]core.Shift, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, worker_name, date, start_time, end_time, cost, paid FROM shifts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	shifts := []core.Shift{}
	for rows.Next() {
		var (
			s                core.Shift
			date, start, end string
		)
		if err := rows.Scan(&s.ID, &s.WorkerName, &date, &start, &end, &s.Cost, &s.Paid); err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		if s.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("shift %d: %w", s.ID, err)
		}
		if s.StartTime, err = core.ParseClock(start); err != nil {
			return nil, fmt.Errorf("shift %d: %w", s.ID, err)
		}
		if s.EndTime, err = core.ParseClock(end); err != nil {
			return nil, fmt.Errorf("shift %d: %w", s.ID, err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shifts: %w", err)
	}
	return shifts, nil
}

func (r *SQLiteRepository) CreateShift(ctx context.Context, s core.Shift) (core.Shift, error) {
	if err := s.Validate(); err != nil {
		return core.Shift{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shifts (worker_name, date, start_time, end_time, cost, paid) VALUES (?, ?, ?, ?, ?, 0)`,
		s.WorkerName, s.Date.String(), s.StartTime.String(), s.EndTime.String(), int64(s.Cost))
	if err != nil {
		return core.Shift{}, fmt.Errorf("create shift: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Shift{}, fmt.Errorf("create shift: last insert id: %w", err)
	}
	s.ID, s.Paid = id, false

	slog.DebugContext(ctx, "Shift saved to SQLite", "id", id, "date", s.Date.String(), "cost", int64(s.Cost))
	return s, nil
}

func (r *SQLiteRepository) DeleteShift(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "shifts", id)
}

func (r *SQLiteRepository) ListSongs(ctx context.Context) ([]core.Song, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, artist, added_by, cost, paid FROM songs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	songs := []core.Song{}
	for rows.Next() {
		var s core.Song
		if err := rows.Scan(&s.ID, &s.Title, &s.Artist, &s.AddedBy, &s.Cost, &s.Paid); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

func (r *SQLiteRepository) CreateSong(ctx context.Context, s core.Song) (core.Song, error) {
	if err := s.Validate(); err != nil {
		return core.Song{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO songs (title, artist, added_by, cost, paid) VALUES (?, ?, ?, ?, 0)`,
		s.Title, s.Artist, s.AddedBy, int64(s.Cost))
	if err != nil {
		return core.Song{}, fmt.Errorf("create song: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Song{}, fmt.Errorf("create song: last insert id: %w", err)
	}
	s.ID, s.Paid = id, false

	slog.DebugContext(ctx, "Song saved to SQLite", "id", id, "cost", int64(s.Cost))
	return s, nil
}

func (r *SQLiteRepository) DeleteSong(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "songs", id)
}

// Earnings sums both tables in one query so lifetime and balance come from the same snapshot.
func (r *SQLiteRepository) Earnings(ctx context.Context) (core.EarningsStats, error) {
	const q = `
SELECT COALESCE(SUM(cost), 0), COALESCE(SUM(CASE WHEN paid = 0 THEN cost ELSE 0 END), 0)
FROM (SELECT cost, paid FROM shifts UNION ALL SELECT cost, paid FROM songs)`

	var stats core.EarningsStats
	if err := r.db.QueryRowContext(ctx, q).Scan(&stats.LifetimeEarnings, &stats.CurrentBalance); err != nil {
		return core.EarningsStats{}, fmt.Errorf("earnings: %w", err)
	}
	return stats, nil
}

func (r *SQLiteRepository) Payout(ctx context.Context) (ledger.PayoutResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.PayoutResult{}, fmt.Errorf("payout: begin: %w", err)
	}
	defer tx.Rollback()

	var res ledger.PayoutResult
	if err := tx.QueryRowContext(ctx, `
SELECT
  (SELECT COUNT(*) FROM shifts WHERE paid = 0),
  (SELECT COUNT(*) FROM songs WHERE paid = 0),
  (SELECT COALESCE(SUM(cost), 0) FROM shifts WHERE paid = 0) +
  (SELECT COALESCE(SUM(cost), 0) FROM songs WHERE paid = 0)`).Scan(&res.Shifts, &res.Songs, &res.Amount); err != nil {
		return ledger.PayoutResult{}, fmt.Errorf("payout: totals: %w", err)
	}

	for _, stmt := range []string{
		`UPDATE shifts SET paid = 1 WHERE paid = 0`,
		`UPDATE songs SET paid = 1 WHERE paid = 0`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return ledger.PayoutResult{}, fmt.Errorf("payout: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ledger.PayoutResult{}, fmt.Errorf("payout: commit: %w", err)
	}

	slog.InfoContext(ctx, "Payout settled", "shifts", res.Shifts, "songs", res.Songs, "amount", int64(res.Amount))
	return res, nil
}

// deleteByID removes a row; table is always one of the two literal names above.
func (r *SQLiteRepository) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: rows affected: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", table, id, ledger.ErrNotFound)
	}
	return nil
}
