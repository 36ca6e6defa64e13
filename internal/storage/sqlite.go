// Package storage provides SQLite-based persistence for render history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for render history.
type Store struct {
	db *sql.DB
}

// RenderRecord describes one completed animation render.
type RenderRecord struct {
	ID        int64
	Username  string
	Policy    string
	FPS       int
	Format    string
	Frames    int
	Bytes     int
	Score     int
	Seed      uint64
	CreatedAt time.Time
}

// UserStats contains aggregated render statistics for one username.
type UserStats struct {
	Username   string
	Renders    int
	HighScore  int
	AvgScore   float64
	TotalBytes int64
	LastRender time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS renders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			policy TEXT NOT NULL,
			fps INTEGER NOT NULL,
			format TEXT NOT NULL,
			frames INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			score INTEGER NOT NULL,
			seed TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_renders_username ON renders(username);
		CREATE INDEX IF NOT EXISTS idx_renders_recent ON renders(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRender records a completed render. Returns the inserted record ID.
// The seed is stored as text because SQLite integers are signed 64-bit.
func (s *Store) SaveRender(rec RenderRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO renders (username, policy, fps, format, frames, bytes, score, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Username, rec.Policy, rec.FPS, rec.Format, rec.Frames, rec.Bytes, rec.Score,
		fmt.Sprintf("%d", rec.Seed),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save render: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRenders retrieves the most recent renders, newest first. An empty
// username returns history across all users.
func (s *Store) RecentRenders(username string, limit int) ([]RenderRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, username, policy, fps, format, frames, bytes, score, seed, created_at
	          FROM renders`
	args := []any{}
	if username != "" {
		query += ` WHERE username = ?`
		args = append(args, username)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query renders: %w", err)
	}
	defer rows.Close()

	var records []RenderRecord
	for rows.Next() {
		rec, err := scanRender(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// HighScore returns the best score recorded for the given username.
// Returns 0 if no renders exist.
func (s *Store) HighScore(username string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM renders WHERE username = ?",
		username,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Stats retrieves aggregated render statistics for a username.
func (s *Store) Stats(username string) (*UserStats, error) {
	stats := &UserStats{Username: username}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(bytes), 0)
		 FROM renders WHERE username = ?`,
		username,
	).Scan(&stats.Renders, &stats.HighScore, &stats.AvgScore, &stats.TotalBytes)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastRender any
	err = s.db.QueryRow(
		`SELECT created_at FROM renders WHERE username = ? ORDER BY id DESC LIMIT 1`,
		username,
	).Scan(&lastRender)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last render: %w", err)
	}
	if err == nil {
		stats.LastRender = parseTimestamp(lastRender)
	}
	return stats, nil
}

// ClearHistory deletes all renders for the given username.
func (s *Store) ClearHistory(username string) error {
	_, err := s.db.Exec("DELETE FROM renders WHERE username = ?", username)
	if err != nil {
		return fmt.Errorf("storage: cannot clear history: %w", err)
	}
	return nil
}

func scanRender(rows *sql.Rows) (RenderRecord, error) {
	var rec RenderRecord
	var seed string
	var createdAt any
	if err := rows.Scan(
		&rec.ID, &rec.Username, &rec.Policy, &rec.FPS, &rec.Format,
		&rec.Frames, &rec.Bytes, &rec.Score, &seed, &createdAt,
	); err != nil {
		return RenderRecord{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	fmt.Sscanf(seed, "%d", &rec.Seed)
	rec.CreatedAt = parseTimestamp(createdAt)
	return rec, nil
}

// parseTimestamp handles both time.Time and string forms returned by the
// driver for DATETIME columns.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
