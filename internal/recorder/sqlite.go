package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists render events to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log logrus.FieldLogger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log logrus.FieldLogger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers are not blocked while the dashboard writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS render_events (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			primary_sym TEXT NOT NULL,
			compare     TEXT,
			period      TEXT,
			duration_ms INTEGER,
			failed      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_render_ts ON render_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS render_regions (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id  TEXT NOT NULL REFERENCES render_events(id),
			region    TEXT NOT NULL,
			title     TEXT,
			points    INTEGER,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_region_event ON render_regions(event_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRender(evt *RenderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := evt.At
	if at.IsZero() {
		at = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO render_events
		(id, timestamp, primary_sym, compare, period, duration_ms, failed)
		VALUES (?,?,?,?,?,?,?)`,
		evt.ID, at.Unix(), evt.Primary, strings.Join(evt.Compare, ","), evt.Period,
		evt.Duration.Milliseconds(), evt.Failed(),
	); err != nil {
		return fmt.Errorf("insert render event: %w", err)
	}
	for _, reg := range evt.Regions {
		if _, err := tx.Exec(`INSERT INTO render_regions
			(event_id, region, title, points, error)
			VALUES (?,?,?,?,?)`,
			evt.ID, reg.Region, reg.Title, reg.Points, reg.Error,
		); err != nil {
			return fmt.Errorf("insert render region: %w", err)
		}
	}
	return tx.Commit()
}

// CountRenders returns the number of recorded evaluations and how many had failed regions.
func (r *SQLiteRecorder) CountRenders() (total, withFailures int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	err = r.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(CASE WHEN failed > 0 THEN 1 ELSE 0 END), 0)
		FROM render_events`).Scan(&total, &withFailures)
	return total, withFailures, err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
