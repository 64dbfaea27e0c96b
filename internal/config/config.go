// Package config loads game configuration from YAML and applies difficulty
// presets on top of it.
package config

import (
	"errors"
	"fmt"
	"time"
)

// BlocksConfig contains all configuration for the falling-block game.
type BlocksConfig struct {
	Board   BlocksBoard   `yaml:"board"`
	Drop    BlocksDrop    `yaml:"drop"`
	Scoring BlocksScoring `yaml:"scoring"`
}

// BlocksBoard sets the well size in cells.
type BlocksBoard struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BlocksDrop defines the gravity curve. The interval at a level is
// max(min, base - (level-1)*step).
type BlocksDrop struct {
	BaseMs int `yaml:"base_ms"`
	StepMs int `yaml:"step_ms"` // 0 keeps the speed constant
	MinMs  int `yaml:"min_ms"`
}

// BlocksScoring defines points and level progression.
type BlocksScoring struct {
	PointsPerLine int `yaml:"points_per_line"`
	LinesPerLevel int `yaml:"lines_per_level"`
}

// Base returns the level 1 drop interval.
func (d BlocksDrop) Base() time.Duration { return time.Duration(d.BaseMs) * time.Millisecond }

// Step returns the per-level interval reduction.
func (d BlocksDrop) Step() time.Duration { return time.Duration(d.StepMs) * time.Millisecond }

// Min returns the interval floor.
func (d BlocksDrop) Min() time.Duration { return time.Duration(d.MinMs) * time.Millisecond }

// Validation errors.
var (
	ErrBoardTooSmall = errors.New("board must be at least 4x4")
	ErrBadTiming     = errors.New("drop timings must be positive")
	ErrBadScoring    = errors.New("scoring constants must be positive")
)

// Validate reports the first problem that would make the config unplayable.
func (c BlocksConfig) Validate() error {
	if c.Board.Width < 4 || c.Board.Height < 4 {
		return fmt.Errorf("%w: got %dx%d", ErrBoardTooSmall, c.Board.Width, c.Board.Height)
	}
	if c.Drop.BaseMs <= 0 || c.Drop.MinMs <= 0 || c.Drop.StepMs < 0 {
		return ErrBadTiming
	}
	if c.Drop.MinMs > c.Drop.BaseMs {
		return fmt.Errorf("%w: min_ms %d exceeds base_ms %d", ErrBadTiming, c.Drop.MinMs, c.Drop.BaseMs)
	}
	if c.Scoring.PointsPerLine <= 0 || c.Scoring.LinesPerLevel <= 0 {
		return ErrBadScoring
	}
	return nil
}
