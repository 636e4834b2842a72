// Package persistence stores game snapshots. A snapshot is the unit of
// save and resume; stores never see engine internals, only the
// serializable image the engine exports.
package persistence

import (
	"context"
	"errors"
	"log/slog"

	"github.com/suderio/dragondice/internal/engine"
)

// ErrNotFound reports a load for a game id the store has never seen.
var ErrNotFound = errors.New("game not found")

// SnapshotStore persists snapshots keyed by their game id.
type SnapshotStore interface {
	Save(ctx context.Context, snap *engine.Snapshot) error
	Load(ctx context.Context, id string) (*engine.Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Open picks the store backing from configuration: a Redis URL wins over
// the file directory.
func Open(redisURL, dir string, logger *slog.Logger) (SnapshotStore, error) {
	if redisURL != "" {
		return NewRedisStore(redisURL, logger)
	}
	return NewFileStore(dir, logger)
}
