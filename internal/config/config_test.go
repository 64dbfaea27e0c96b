package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := decodeBlocks(GetDefaultYAML("blocks"))
	if err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != DefaultBlocksConfig() {
		t.Errorf("embedded defaults = %+v, expected %+v", cfg, DefaultBlocksConfig())
	}
	if GetDefaultYAML("pong") != nil {
		t.Error("GetDefaultYAML should return nil for unknown games")
	}
}

func TestLoadBlocksCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.yaml")
	data := []byte("board:\n  width: 12\ndrop:\n  base_ms: 800\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBlocks(path)
	if err != nil {
		t.Fatalf("LoadBlocks() error = %v", err)
	}
	if cfg.Board.Width != 12 {
		t.Errorf("Board.Width = %d, expected 12", cfg.Board.Width)
	}
	if cfg.Board.Height != 20 {
		t.Errorf("Board.Height = %d, expected default 20", cfg.Board.Height)
	}
	if cfg.Drop.Base() != 800*time.Millisecond {
		t.Errorf("Drop.Base() = %v, expected 800ms", cfg.Drop.Base())
	}
}

func TestLoadBlocksCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadBlocks(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should be an error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("board: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBlocks(bad); err == nil {
		t.Error("malformed YAML should be an error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("board:\n  width: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadBlocks(invalid)
	if !errors.Is(err, ErrBoardTooSmall) {
		t.Errorf("LoadBlocks() error = %v, expected ErrBoardTooSmall", err)
	}
}

func TestLoadBlocksFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadBlocks("")
	if err != nil {
		t.Fatalf("LoadBlocks() error = %v", err)
	}
	if cfg != DefaultBlocksConfig() {
		t.Errorf("LoadBlocks() = %+v, expected defaults", cfg)
	}
}

func TestLoadBlocksUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	dir := filepath.Join(home, AppDir, "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "blocks.yaml"), []byte("scoring:\n  points_per_line: 40\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBlocks("")
	if err != nil {
		t.Fatalf("LoadBlocks() error = %v", err)
	}
	if cfg.Scoring.PointsPerLine != 40 {
		t.Errorf("PointsPerLine = %d, expected 40", cfg.Scoring.PointsPerLine)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BlocksConfig)
		want   error
	}{
		{"defaults", func(*BlocksConfig) {}, nil},
		{"narrow", func(c *BlocksConfig) { c.Board.Width = 3 }, ErrBoardTooSmall},
		{"short", func(c *BlocksConfig) { c.Board.Height = 0 }, ErrBoardTooSmall},
		{"zero base", func(c *BlocksConfig) { c.Drop.BaseMs = 0 }, ErrBadTiming},
		{"negative step", func(c *BlocksConfig) { c.Drop.StepMs = -1 }, ErrBadTiming},
		{"min above base", func(c *BlocksConfig) { c.Drop.MinMs = 2000 }, ErrBadTiming},
		{"zero points", func(c *BlocksConfig) { c.Scoring.PointsPerLine = 0 }, ErrBadScoring},
		{"zero lines per level", func(c *BlocksConfig) { c.Scoring.LinesPerLevel = 0 }, ErrBadScoring},
		{"fixed speed", func(c *BlocksConfig) { c.Drop.StepMs = 0 }, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultBlocksConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, expected nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, expected %v", err, tc.want)
			}
		})
	}
}

func TestApplyBlocksPreset(t *testing.T) {
	tests := []struct {
		preset              DifficultyPreset
		base, step, minimum int
	}{
		{DifficultyEasy, 1200, 100, 100},
		{DifficultyNormal, 1000, 100, 100},
		{DifficultyHard, 700, 100, 80},
		{DifficultyFixed, 1000, 0, 100},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultBlocksConfig()
			ApplyBlocksPreset(&cfg, tc.preset)
			if cfg.Drop.BaseMs != tc.base || cfg.Drop.StepMs != tc.step || cfg.Drop.MinMs != tc.minimum {
				t.Errorf("Drop = %+v, expected base=%d step=%d min=%d", cfg.Drop, tc.base, tc.step, tc.minimum)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s produced an invalid config: %v", tc.preset, err)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"", DifficultyNormal, false},
		{"easy", DifficultyEasy, false},
		{" HARD ", DifficultyHard, false},
		{"fixed", DifficultyFixed, false},
		{"nightmare", "", true},
	}

	for _, tc := range tests {
		got, err := ParseDifficulty(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDifficulty(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}
