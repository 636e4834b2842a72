// Package session ties one game to its decision source: it parses raw
// input lines, routes them through the command layer, and owns saving and
// resuming against the snapshot store.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/suderio/dragondice/internal/command"
	"github.com/suderio/dragondice/internal/data"
	"github.com/suderio/dragondice/internal/engine"
	"github.com/suderio/dragondice/internal/logger"
	"github.com/suderio/dragondice/internal/parser"
	"github.com/suderio/dragondice/internal/persistence"
)

// Session is the live binding of a game, its store and its logger. It is
// the engine's event sink: every committed event passes through Emit on
// its way to the log.
type Session struct {
	defs   engine.Definitions
	game   *engine.Game
	store  persistence.SnapshotStore
	logger *slog.Logger
	parser *participle.Parser[parser.Decision]
}

// NewFromSetup starts a fresh game from a validated setup.
func NewFromSetup(defs engine.Definitions, setup *data.Setup, store persistence.SnapshotStore, log *slog.Logger) (*Session, error) {
	state, err := engine.BuildState(defs, setup)
	if err != nil {
		return nil, fmt.Errorf("failed to build game state: %w", err)
	}
	s := &Session{defs: defs, store: store, logger: logger.WithGame(log, state.ID), parser: parser.Build()}
	game, err := engine.NewGame(defs, state, s)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	s.game = game
	s.logger.Info("game started", "players", strings.Join(state.Players, ", "))
	return s, nil
}

// Resume rebuilds a session from a stored snapshot.
func Resume(ctx context.Context, defs engine.Definitions, store persistence.SnapshotStore, id string, log *slog.Logger) (*Session, error) {
	snap, err := store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s := &Session{defs: defs, store: store, logger: logger.WithGame(log, id), parser: parser.Build()}
	game, err := engine.ResumeGame(defs, snap, s)
	if err != nil {
		return nil, fmt.Errorf("failed to resume game %s: %w", id, err)
	}
	s.game = game
	s.logger.Info("game resumed", "turn", game.TurnNumber(), "phase", game.Phase())
	return s, nil
}

// Game exposes the live engine for rendering.
func (s *Session) Game() *engine.Game { return s.game }

// Execute runs one raw decision line end to end. Parse failures come back
// as usage guidance; engine rejections come back as-is, with the game
// state untouched.
func (s *Session) Execute(ctx context.Context, line string) (*command.Outcome, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return &command.Outcome{}, nil
	}
	dec, err := s.parser.ParseString("", line)
	if err != nil {
		return nil, parser.MapError(line, err)
	}
	if dec.Save != nil {
		if err := s.SaveGame(ctx); err != nil {
			return nil, err
		}
		return &command.Outcome{Text: fmt.Sprintf("game %s saved", s.game.State().ID)}, nil
	}
	out, err := command.Execute(dec, s.game)
	if err != nil {
		s.logger.Debug("decision rejected", "line", line, "error", err)
		return nil, err
	}
	return out, nil
}

// SaveGame exports the current snapshot to the store.
func (s *Session) SaveGame(ctx context.Context) error {
	snap, err := s.game.ExportState()
	if err != nil {
		return err
	}
	return s.store.Save(ctx, snap)
}

// Emit implements engine.Sink, logging every committed event.
func (s *Session) Emit(evt engine.Event) {
	s.logger.Debug("event", "type", evt.Type(), "detail", evt.Message())
}

// Close releases the store.
func (s *Session) Close() error {
	return s.store.Close()
}
