package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"github.com/wabbazzar/shredly2-sub003/internal/timer"
)

// Journal is a local SQLite flight recorder for timer events. It lives
// next to the daemon so a session can be reconstructed after a crash
// even when Postgres is unreachable.
type Journal struct {
	db *sql.DB
}

// JournalEntry is one recorded timer event.
type JournalEntry struct {
	SessionID  uuid.UUID       `json:"session_id"`
	EventType  timer.EventType `json:"event_type"`
	Phase      timer.Phase     `json:"phase"`
	Remaining  float64         `json:"remaining_seconds"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// OpenJournal opens (or creates) the journal database at dir/journal.db.
func OpenJournal(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS timer_events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id  TEXT NOT NULL,
		event_type  TEXT NOT NULL,
		state_json  TEXT NOT NULL,
		recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal table: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends one timer event for the session.
func (j *Journal) Record(sessionID uuid.UUID, ev timer.Event) error {
	state, err := json.Marshal(ev.State)
	if err != nil {
		return fmt.Errorf("encoding event state: %w", err)
	}
	_, err = j.db.Exec(
		`INSERT INTO timer_events (session_id, event_type, state_json) VALUES (?, ?, ?)`,
		sessionID.String(), string(ev.Type), string(state),
	)
	return err
}

// Recent returns the newest events for a session, most recent first.
func (j *Journal) Recent(sessionID uuid.UUID, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.Query(
		`SELECT session_id, event_type, state_json, recorded_at
		 FROM timer_events WHERE session_id = ?
		 ORDER BY id DESC LIMIT ?`,
		sessionID.String(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var (
			sid       string
			eventType string
			stateJSON string
			entry     JournalEntry
		)
		if err := rows.Scan(&sid, &eventType, &stateJSON, &entry.RecordedAt); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(sid)
		if err != nil {
			return nil, fmt.Errorf("journal row has bad session id %q: %w", sid, err)
		}
		entry.SessionID = id
		entry.EventType = timer.EventType(eventType)

		var state timer.State
		if err := json.Unmarshal([]byte(stateJSON), &state); err == nil {
			entry.Phase = state.Phase
			entry.Remaining = state.RemainingSeconds
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
