package repo

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/solo-life/service_layer/internal/errors"
)

// SnapshotVersion tags exported snapshots so future format changes can be
// detected on import.
const SnapshotVersion = 1

const snapshotTimestampLayout = "2006-01-02T15-04-05"

// Snapshot is a complete copy of one user's entity documents, used for both
// stored backups and export/import.
type Snapshot struct {
	Version   int                        `json:"version"`
	CreatedAt time.Time                  `json:"createdAt"`
	Entities  map[string]json.RawMessage `json:"entities"`
}

// CreateUserBackup snapshots every entity document the user has and stores
// it under user:<id>:backup:<timestamp>. Returns the backup ID.
func (s *Store) CreateUserBackup(ctx context.Context, userID string) (string, error) {
	snap, err := s.ExportUser(ctx, userID)
	if err != nil {
		return "", err
	}

	id := snap.CreatedAt.Format(snapshotTimestampLayout)
	if err := s.kv.Write(ctx, userBackupPrefix(userID)+id, snap); err != nil {
		return "", err
	}
	return id, nil
}

// RestoreUserBackup replaces the user's entity documents with the contents
// of the named backup. Entities absent from the snapshot are left alone.
func (s *Store) RestoreUserBackup(ctx context.Context, userID, backupID string) error {
	var snap Snapshot
	found, err := s.kv.Read(ctx, userBackupPrefix(userID)+backupID, &snap)
	if err != nil {
		return err
	}
	if !found {
		return errors.BackupNotFound(backupID)
	}
	return s.ImportUser(ctx, userID, &snap)
}

// ListUserBackups returns the user's backup IDs, newest first.
func (s *Store) ListUserBackups(ctx context.Context, userID string) []string {
	prefix := userBackupPrefix(userID)
	keys := s.kv.ListKeys(ctx, prefix)

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, key[len(prefix):])
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids
}

// ExportUser collects every stored entity document into a snapshot. Entities
// the user has never written are omitted.
func (s *Store) ExportUser(ctx context.Context, userID string) (*Snapshot, error) {
	snap := &Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: time.Now().UTC(),
		Entities:  make(map[string]json.RawMessage),
	}
	for _, entity := range entityNames {
		var raw json.RawMessage
		found, err := s.kv.Read(ctx, EntityKey(userID, entity), &raw)
		if err != nil {
			return nil, err
		}
		if found {
			snap.Entities[entity] = raw
		}
	}
	return snap, nil
}

// ImportUser writes the snapshot's documents over the user's current data.
// Unknown entity names are rejected rather than written.
func (s *Store) ImportUser(ctx context.Context, userID string, snap *Snapshot) error {
	if snap.Version != SnapshotVersion {
		return errors.Validation("unsupported snapshot version")
	}
	for entity, raw := range snap.Entities {
		if !ValidEntity(entity) {
			return errors.Validation("unknown entity in snapshot: " + entity)
		}
		if err := s.kv.Write(ctx, EntityKey(userID, entity), raw); err != nil {
			return err
		}
	}
	return nil
}
