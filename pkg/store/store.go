// Package store persists lock sessions and distance readings in SQLite.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/calibration"
	"github.com/teslashibe/go-facerange/pkg/tracking"

	_ "modernc.org/sqlite"
)

// schema.sql defines the sessions and readings tables.
//
//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed reading log.
type Store struct {
	*sql.DB
}

var _ tracking.Observer = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// A single connection keeps writes ordered and :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	log.Info("reading store ready", "path", path)
	return &Store{db}, nil
}

// RecordSession stores a new lock session.
func (s *Store) RecordSession(sess tracking.Session) error {
	query := `
		INSERT INTO sessions (id, started_at, user_height_cm, gender, observed_px,
			face_height_m, focal_length, face_x, face_y, face_w, face_h)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	m := sess.Model
	_, err := s.Exec(query,
		sess.ID.String(), sess.StartedAt.UnixNano(), m.UserHeightCm, string(m.Gender), m.ObservedPx,
		m.FaceHeightM, m.FocalLength,
		sess.Face.Min.X, sess.Face.Min.Y, sess.Face.Dx(), sess.Face.Dy())
	if err != nil {
		return fmt.Errorf("store: insert session: %w", err)
	}
	return nil
}

// RecordReading stores one reading.
func (s *Store) RecordReading(r tracking.Reading) error {
	query := `
		INSERT INTO readings (session_id, frame, ts, distance_m, category, score, scale, angle,
			x, y, w, h, canonical, refreshed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.Exec(query,
		r.SessionID.String(), int64(r.Frame), r.Time.UnixNano(), r.Distance, r.Category,
		r.Score, r.Scale, r.Angle,
		r.Box.Min.X, r.Box.Min.Y, r.Box.Dx(), r.Box.Dy(),
		r.Canonical, r.Refreshed)
	if err != nil {
		return fmt.Errorf("store: insert reading: %w", err)
	}
	return nil
}

// OnSession records sess, logging failures.
func (s *Store) OnSession(sess tracking.Session) {
	if err := s.RecordSession(sess); err != nil {
		log.Warn("failed to record session", "session", sess.ID, "error", err)
	}
}

// OnReading records r, logging failures.
func (s *Store) OnReading(r tracking.Reading) {
	if err := s.RecordReading(r); err != nil {
		log.Warn("failed to record reading", "session", r.SessionID, "frame", r.Frame, "error", err)
	}
}

// Sessions returns all sessions, newest first.
func (s *Store) Sessions() ([]tracking.Session, error) {
	query := `
		SELECT id, started_at, user_height_cm, gender, observed_px, face_height_m, focal_length,
			face_x, face_y, face_w, face_h
		FROM sessions
		ORDER BY started_at DESC
	`
	rows, err := s.Query(query)
	if err != nil {
		return nil, fmt.Errorf("store: query sessions: %w", err)
	}
	defer rows.Close()

	var out []tracking.Session
	for rows.Next() {
		var (
			id         string
			started    int64
			gender     string
			x, y, w, h int
			sess       tracking.Session
		)
		m := &sess.Model
		if err := rows.Scan(&id, &started, &m.UserHeightCm, &gender, &m.ObservedPx,
			&m.FaceHeightM, &m.FocalLength, &x, &y, &w, &h); err != nil {
			return nil, fmt.Errorf("store: scan session: %w", err)
		}
		if sess.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("store: session id %q: %w", id, err)
		}
		sess.StartedAt = time.Unix(0, started)
		m.Gender = calibration.Gender(gender)
		sess.Face = image.Rect(x, y, x+w, y+h)
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Readings returns up to limit readings of a session in frame order.
// A non-positive limit returns all of them.
func (s *Store) Readings(sessionID uuid.UUID, limit int) ([]tracking.Reading, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT frame, ts, distance_m, category, score, scale, angle, x, y, w, h, canonical, refreshed
		FROM readings
		WHERE session_id = ?
		ORDER BY frame
		LIMIT ?
	`
	rows, err := s.Query(query, sessionID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("store: query readings: %w", err)
	}
	defer rows.Close()

	var out []tracking.Reading
	for rows.Next() {
		var (
			r          tracking.Reading
			frame, ts  int64
			x, y, w, h int
		)
		if err := rows.Scan(&frame, &ts, &r.Distance, &r.Category, &r.Score, &r.Scale, &r.Angle,
			&x, &y, &w, &h, &r.Canonical, &r.Refreshed); err != nil {
			return nil, fmt.Errorf("store: scan reading: %w", err)
		}
		r.SessionID = sessionID
		r.Frame = uint64(frame)
		r.Time = time.Unix(0, ts)
		r.Box = image.Rect(x, y, x+w, y+h)
		out = append(out, r)
	}
	return out, rows.Err()
}
