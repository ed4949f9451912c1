// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/huddle/models"
)

var ErrNotFound = errors.New("not found")

// Store runs the session and participant queries.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateSession(ctx context.Context, sess models.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, title, join_code, created_at)
		VALUES ($1, $2, $3, $4)
	`, sess.ID, sess.Title, sess.JoinCode, sess.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (models.Session, error) {
	return s.scanSession(s.db.QueryRowContext(ctx, `
		SELECT id, title, join_code, created_at FROM session WHERE id = $1
	`, id))
}

func (s *Store) GetSessionByJoinCode(ctx context.Context, code string) (models.Session, error) {
	return s.scanSession(s.db.QueryRowContext(ctx, `
		SELECT id, title, join_code, created_at FROM session WHERE join_code = $1
	`, code))
}

func (s *Store) scanSession(row *sql.Row) (models.Session, error) {
	var sess models.Session
	err := row.Scan(&sess.ID, &sess.Title, &sess.JoinCode, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, fmt.Errorf("session %w", ErrNotFound)
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to query session: %w", err)
	}
	return sess, nil
}

// UpsertParticipant records a join. Joining again updates the name and
// theme and keeps the original join time.
func (s *Store) UpsertParticipant(ctx context.Context, p models.Participant) (models.Participant, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participant (session_id, user_id, name, theme, joined_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (session_id, user_id)
		DO UPDATE SET name = excluded.name, theme = excluded.theme, last_seen_at = excluded.last_seen_at
	`, p.SessionID, p.UserID, p.Name, p.Theme, now)
	if err != nil {
		return models.Participant{}, fmt.Errorf("failed to upsert participant: %w", err)
	}
	return s.GetParticipant(ctx, p.SessionID, p.UserID)
}

func (s *Store) GetParticipant(ctx context.Context, sessionID, userID string) (models.Participant, error) {
	var p models.Participant
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, user_id, name, theme, joined_at, last_seen_at
		FROM participant
		WHERE session_id = $1 AND user_id = $2
	`, sessionID, userID).Scan(&p.SessionID, &p.UserID, &p.Name, &p.Theme, &p.JoinedAt, &p.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Participant{}, fmt.Errorf("participant %w", ErrNotFound)
	}
	if err != nil {
		return models.Participant{}, fmt.Errorf("failed to query participant: %w", err)
	}
	return p, nil
}

func (s *Store) ListParticipants(ctx context.Context, sessionID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, user_id, name, theme, joined_at, last_seen_at
		FROM participant
		WHERE session_id = $1
		ORDER BY joined_at, user_id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.SessionID, &p.UserID, &p.Name, &p.Theme, &p.JoinedAt, &p.LastSeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (s *Store) SetParticipantTheme(ctx context.Context, sessionID, userID, theme string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE participant SET theme = $1, last_seen_at = $2
		WHERE session_id = $3 AND user_id = $4
	`, theme, time.Now().UTC(), sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("participant %w", ErrNotFound)
	}
	return nil
}

// TouchParticipant bumps last_seen_at; failures only matter to presence.
func (s *Store) TouchParticipant(ctx context.Context, sessionID, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE participant SET last_seen_at = $1 WHERE session_id = $2 AND user_id = $3
	`, time.Now().UTC(), sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to touch participant: %w", err)
	}
	return nil
}
