// internal/storage/history_store.go
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS event_archive (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL,
	event_id      TEXT NOT NULL,
	fired_at      REAL NOT NULL,
	player_level  INTEGER NOT NULL,
	current_sector INTEGER NOT NULL,
	credits       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_event_archive_session ON event_archive(session_id);
CREATE INDEX IF NOT EXISTS idx_event_archive_event ON event_archive(event_id);
`

// HistoryStore is a durable, cross-session archive of fired events backed by
// SQLite. The in-engine history log stays authoritative for the session
// contract; this store only accumulates records for server-wide statistics.
type HistoryStore struct {
	db *sql.DB
}

// ArchiveRecord is one archived event occurrence.
type ArchiveRecord struct {
	SessionID     string  `json:"session_id"`
	EventID       string  `json:"event_id"`
	FiredAt       float64 `json:"fired_at"`
	PlayerLevel   int     `json:"player_level"`
	CurrentSector int     `json:"current_sector"`
	Credits       int     `json:"credits"`
}

// ArchiveStatistics summarises the whole archive.
type ArchiveStatistics struct {
	TotalEvents int            `json:"total_events"`
	Sessions    int            `json:"sessions"`
	EventCounts map[string]int `json:"event_counts"`
}

// NewHistoryStore opens the database and runs the schema migration.
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Append archives one fired event.
func (s *HistoryStore) Append(rec ArchiveRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO event_archive (session_id, event_id, fired_at, player_level, current_sector, credits)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.EventID, rec.FiredAt, rec.PlayerLevel, rec.CurrentSector, rec.Credits,
	)
	if err != nil {
		return fmt.Errorf("insert archive record: %w", err)
	}
	return nil
}

// RecentForSession returns the newest limit records of one session, oldest
// first.
func (s *HistoryStore) RecentForSession(sessionID string, limit int) ([]ArchiveRecord, error) {
	rows, err := s.db.Query(
		`SELECT session_id, event_id, fired_at, player_level, current_sector, credits
		 FROM (
			SELECT * FROM event_archive WHERE session_id = ? ORDER BY id DESC LIMIT ?
		 ) ORDER BY id ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query session archive: %w", err)
	}
	defer rows.Close()

	var records []ArchiveRecord
	for rows.Next() {
		var rec ArchiveRecord
		if err := rows.Scan(&rec.SessionID, &rec.EventID, &rec.FiredAt, &rec.PlayerLevel, &rec.CurrentSector, &rec.Credits); err != nil {
			return nil, fmt.Errorf("scan archive record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Statistics aggregates the archive across all sessions.
func (s *HistoryStore) Statistics() (ArchiveStatistics, error) {
	stats := ArchiveStatistics{EventCounts: make(map[string]int)}

	row := s.db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT session_id) FROM event_archive`)
	if err := row.Scan(&stats.TotalEvents, &stats.Sessions); err != nil {
		return stats, fmt.Errorf("scan archive totals: %w", err)
	}

	rows, err := s.db.Query(`SELECT event_id, COUNT(*) FROM event_archive GROUP BY event_id`)
	if err != nil {
		return stats, fmt.Errorf("query archive counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return stats, fmt.Errorf("scan archive count: %w", err)
		}
		stats.EventCounts[id] = count
	}
	return stats, rows.Err()
}

// PurgeSession removes all archived records of one session.
func (s *HistoryStore) PurgeSession(sessionID string) error {
	if _, err := s.db.Exec(`DELETE FROM event_archive WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("purge session archive: %w", err)
	}
	return nil
}
