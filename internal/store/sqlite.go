package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"FareSentinel/internal/collector"
	"FareSentinel/internal/model"

	_ "modernc.org/sqlite"
)

// ErrSnapshotNotFound is returned when the store holds no captured calendar.
var ErrSnapshotNotFound = errors.New("no calendar snapshot stored")

// SQLiteStore keeps captured fare calendars so they can be replayed as a calendar source.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	log.Printf("[INFO] sqlite snapshot store opened: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

// SaveSnapshot stores cal as the newest snapshot and returns its id.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, source string, cal *collector.Calendar) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (captured_at, source, overlay) VALUES (?,?,?)`,
		time.Now().Unix(), source, cal.Overlay)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}

	for mi, month := range cal.Months {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_months (snapshot_id, month_index, title) VALUES (?,?,?)`,
			id, mi, month.Title); err != nil {
			return 0, fmt.Errorf("insert month %d: %w", mi, err)
		}
		for pos, cell := range month.Cells {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO snapshot_cells (snapshot_id, month_index, position, label, raw_price) VALUES (?,?,?,?,?)`,
				id, mi, pos, cell.DateLabel, cell.RawPriceText); err != nil {
				return 0, fmt.Errorf("insert cell %d/%d: %w", mi, pos, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit snapshot: %w", err)
	}
	return id, nil
}

// LatestCalendar loads the newest snapshot.
func (s *SQLiteStore) LatestCalendar(ctx context.Context) (*collector.Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	var overlay bool
	err := s.db.QueryRowContext(ctx,
		`SELECT id, overlay FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&id, &overlay)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	cal := &collector.Calendar{Overlay: overlay}
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM snapshot_months WHERE snapshot_id = ? ORDER BY month_index`, id)
	if err != nil {
		return nil, fmt.Errorf("query months: %w", err)
	}
	for rows.Next() {
		var m model.MonthGrid
		if err := rows.Scan(&m.Title); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan month: %w", err)
		}
		cal.Months = append(cal.Months, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate months: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT month_index, label, raw_price FROM snapshot_cells WHERE snapshot_id = ? ORDER BY month_index, position`, id)
	if err != nil {
		return nil, fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var mi int
		var cell model.PriceCell
		if err := rows.Scan(&mi, &cell.DateLabel, &cell.RawPriceText); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		if mi < 0 || mi >= len(cal.Months) {
			return nil, fmt.Errorf("cell refers to missing month %d", mi)
		}
		cal.Months[mi].Cells = append(cal.Months[mi].Cells, cell)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cells: %w", err)
	}
	return cal, nil
}

// Source exposes the newest snapshot as a calendar source.
func (s *SQLiteStore) Source() *collector.LoaderSource {
	return collector.NewLoaderSource("sqlite", s.LatestCalendar)
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite snapshot store")
	return s.db.Close()
}
