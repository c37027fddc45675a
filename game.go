package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Game wires a session to its configuration: rewind mode, logging and the
// optional checkpoint file written after every command.
type Game struct {
	Session        *Session
	CheckpointPath string

	logger *zap.Logger
}

func NewGame(catalog *Catalog, out Sink, cfg Config, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mode, err := ParseRewindMode(cfg.Rewind)
	if err != nil {
		return nil, err
	}
	s := NewSession(catalog, out)
	s.Logger = logger
	s.Rewind = mode
	return &Game{
		Session:        s,
		CheckpointPath: cfg.CheckpointPath,
		logger:         logger,
	}, nil
}

// Resume restores the checkpoint file if there is one. A missing file is not
// an error; the game simply starts fresh.
func (g *Game) Resume() (bool, error) {
	if g.CheckpointPath == "" {
		return false, nil
	}
	if _, err := os.Stat(g.CheckpointPath); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	cp, err := LoadCheckpoint(g.CheckpointPath)
	if err != nil {
		return false, err
	}
	if err := g.Session.Restore(cp); err != nil {
		return false, fmt.Errorf("resume %s: %w", g.CheckpointPath, err)
	}
	g.logger.Info("session resumed", zap.String("path", g.CheckpointPath), zap.Int("cursor", cp.Cursor))
	return true, nil
}

// Execute dispatches one line and then writes the checkpoint, if configured.
func (g *Game) Execute(input string) error {
	g.Session.Dispatch(input)
	if g.CheckpointPath == "" {
		return nil
	}
	if err := SaveCheckpoint(g.Session.Checkpoint(), g.CheckpointPath); err != nil {
		g.logger.Error("autosave failed", zap.Error(err))
		return err
	}
	return nil
}
