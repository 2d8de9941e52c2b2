package store

import (
	"database/sql"
	"time"
)

// Transcript represents one word completed during a typing session.
type Transcript struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Word      string    `json:"word"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptRepository provides persistence for completed words.
type TranscriptRepository struct {
	db *sql.DB
}

// Transcripts returns the transcript repository for this store.
func (s *Store) Transcripts() *TranscriptRepository {
	return &TranscriptRepository{db: s.db}
}

// Append records a completed word for a session.
func (r *TranscriptRepository) Append(sessionID, word string) error {
	_, err := r.db.Exec(
		`INSERT INTO transcripts (session_id, word, created_at) VALUES (?, ?, ?)`,
		sessionID, word, time.Now(),
	)
	return err
}

// ListBySession retrieves all transcripts for a session, oldest first.
func (r *TranscriptRepository) ListBySession(sessionID string) ([]Transcript, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, word, created_at
		 FROM transcripts
		 WHERE session_id = ?
		 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTranscripts(rows)
}

// List retrieves the most recent transcripts across all sessions, newest
// first, capped at limit.
func (r *TranscriptRepository) List(limit int) ([]Transcript, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, word, created_at
		 FROM transcripts
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTranscripts(rows)
}

// DeleteBySession removes all transcripts for a session.
func (r *TranscriptRepository) DeleteBySession(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM transcripts WHERE session_id = ?`, sessionID)
	return err
}

func scanTranscripts(rows *sql.Rows) ([]Transcript, error) {
	var transcripts []Transcript
	for rows.Next() {
		var t Transcript
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Word, &t.CreatedAt); err != nil {
			return nil, err
		}
		transcripts = append(transcripts, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transcripts, nil
}
