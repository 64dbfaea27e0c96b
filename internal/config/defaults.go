package config

import (
	_ "embed"
)

//go:embed defaults/blocks.yaml
var defaultBlocksYAML []byte

// DefaultBlocksConfig returns the classic 10x20 rules.
func DefaultBlocksConfig() BlocksConfig {
	return BlocksConfig{
		Board: BlocksBoard{
			Width:  10,
			Height: 20,
		},
		Drop: BlocksDrop{
			BaseMs: 1000,
			StepMs: 100,
			MinMs:  100,
		},
		Scoring: BlocksScoring{
			PointsPerLine: 100,
			LinesPerLevel: 10,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "blocks":
		return defaultBlocksYAML
	default:
		return nil
	}
}
