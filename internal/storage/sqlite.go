// Package storage provides SQLite-based persistence for level progress and
// save slots. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a save slot does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Completion is one finished run of a level.
type Completion struct {
	ID        int64
	LevelID   string
	Turns     int
	Inputs    string
	CreatedAt time.Time
}

// LevelProgress summarises the completions of one level.
type LevelProgress struct {
	LevelID   string
	Runs      int
	BestTurns int
}

// Slot is a named save of an in-progress level.
type Slot struct {
	LevelID   string
	Name      string
	Data      []byte
	UpdatedAt time.Time
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
		CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			turns INTEGER NOT NULL,
			inputs TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_completions_level ON completions(level_id, turns);

		CREATE TABLE IF NOT EXISTS save_slots (
			level_id TEXT NOT NULL,
			slot TEXT NOT NULL,
			data BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (level_id, slot)
		);
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

// RecordCompletion records a finished run of a level.
// Returns the ID of the inserted record.
func (s *Store) RecordCompletion(levelID string, turns int, inputs string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO completions (level_id, turns, inputs) VALUES (?, ?, ?)",
		levelID, turns, inputs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record completion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// BestTurns returns the fewest turns any run of the level took.
// Returns 0 if the level was never completed.
func (s *Store) BestTurns(levelID string) (int, error) {
	var turns sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MIN(turns) FROM completions WHERE level_id = ?",
		levelID,
	).Scan(&turns)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best turns: %w", err)
	}

	if !turns.Valid {
		return 0, nil
	}

	return int(turns.Int64), nil
}

// IsSolved reports whether the level was completed at least once.
func (s *Store) IsSolved(levelID string) (bool, error) {
	best, err := s.BestTurns(levelID)
	return best > 0, err
}

// Completions retrieves the best N runs of a level, fewest turns first.
func (s *Store) Completions(levelID string, limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, turns, inputs, created_at
		 FROM completions
		 WHERE level_id = ?
		 ORDER BY turns ASC, id ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completions: %w", err)
	}
	defer rows.Close()

	var entries []Completion
	for rows.Next() {
		var c Completion
		var createdAt any
		if err := rows.Scan(&c.ID, &c.LevelID, &c.Turns, &c.Inputs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		entries = append(entries, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Progress returns per-level statistics keyed by level ID.
func (s *Store) Progress() (map[string]LevelProgress, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*), MIN(turns)
		 FROM completions
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[string]LevelProgress)
	for rows.Next() {
		var p LevelProgress
		if err := rows.Scan(&p.LevelID, &p.Runs, &p.BestTurns); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		progress[p.LevelID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return progress, nil
}

// SaveSlot writes a save slot of a level, replacing its previous content.
func (s *Store) SaveSlot(levelID, slot string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO save_slots (level_id, slot, data, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(level_id, slot) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		levelID, slot, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save slot %s/%s: %w", levelID, slot, err)
	}
	return nil
}

// LoadSlot reads a save slot. Returns ErrNotFound if it does not exist.
func (s *Store) LoadSlot(levelID, slot string) (*Slot, error) {
	var result Slot
	var updatedAt any
	err := s.db.QueryRow(
		"SELECT level_id, slot, data, updated_at FROM save_slots WHERE level_id = ? AND slot = ?",
		levelID, slot,
	).Scan(&result.LevelID, &result.Name, &result.Data, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: slot %s/%s", ErrNotFound, levelID, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load slot %s/%s: %w", levelID, slot, err)
	}

	result.UpdatedAt = parseTime(updatedAt)
	return &result, nil
}

// DeleteSlot removes a save slot. Deleting a missing slot is not an error.
func (s *Store) DeleteSlot(levelID, slot string) error {
	_, err := s.db.Exec("DELETE FROM save_slots WHERE level_id = ? AND slot = ?", levelID, slot)
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %s/%s: %w", levelID, slot, err)
	}
	return nil
}

// ListSlots returns the save slots of a level without their data, newest first.
func (s *Store) ListSlots(levelID string) ([]Slot, error) {
	rows, err := s.db.Query(
		`SELECT level_id, slot, updated_at
		 FROM save_slots
		 WHERE level_id = ?
		 ORDER BY updated_at DESC, slot ASC`,
		levelID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query slots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var slot Slot
		var updatedAt any
		if err := rows.Scan(&slot.LevelID, &slot.Name, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		slot.UpdatedAt = parseTime(updatedAt)
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return slots, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
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
