// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/danielhkuo/huddle/livestate"
)

// SaveSnapshot stores the latest document of a container, replacing the
// previous one.
func (s *Store) SaveSnapshot(ctx context.Context, snap livestate.Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO container_snapshot (session_id, container_key, version, document, saved_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, container_key)
		DO UPDATE SET version = excluded.version, document = excluded.document, saved_at = excluded.saved_at
	`, snap.SessionID, snap.Key, int64(snap.Version), base64.StdEncoding.EncodeToString(snap.Document), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *Store) LoadSnapshots(ctx context.Context, sessionID string) ([]livestate.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT container_key, version, document
		FROM container_snapshot
		WHERE session_id = $1
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []livestate.Snapshot
	for rows.Next() {
		var (
			key     string
			version int64
			encoded string
		)
		if err := rows.Scan(&key, &version, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		doc, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s is corrupt: %w", key, err)
		}
		snaps = append(snaps, livestate.Snapshot{
			SessionID: sessionID,
			Key:       key,
			Version:   uint64(version),
			Document:  doc,
		})
	}
	return snaps, rows.Err()
}
