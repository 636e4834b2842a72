package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suderio/dragondice/internal/engine"
)

// FileStore keeps one JSON file per game under a directory. Writes go
// through a temp file and rename so a crash never leaves a torn save.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates the directory if needed and returns the store.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if dir == "" {
		dir = "games"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create games directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the snapshot as indented JSON.
func (s *FileStore) Save(ctx context.Context, snap *engine.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %s: %w", snap.ID, err)
	}
	tmp := s.path(snap.ID) + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", snap.ID, err)
	}
	if err := os.Rename(tmp, s.path(snap.ID)); err != nil {
		return fmt.Errorf("failed to place snapshot %s: %w", snap.ID, err)
	}
	s.logger.Debug("snapshot saved", "game", snap.ID, "path", s.path(snap.ID))
	return nil
}

// Load reads a snapshot back. A missing file is ErrNotFound.
func (s *FileStore) Load(ctx context.Context, id string) (*engine.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", id, err)
	}
	var snap engine.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// List returns the saved game ids, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list games directory %s: %w", s.dir, err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Close is a no-op; the store holds no open handles between calls.
func (s *FileStore) Close() error { return nil }
