package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveRun(Run{GameID: "blocks", Score: 300, Level: 1, Lines: 3}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("blocks")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score 300 after reopen, got %d", high)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveRun(Run{GameID: "blocks", Score: score}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	if _, err := store.SaveRun(Run{GameID: "other", Score: 500}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	scores, err := store.TopScores("blocks", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	want := []int{200, 100, 50}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, expected %d", i, scores[i].Score, w)
		}
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		store.SaveRun(Run{GameID: "test", Score: (i + 1) * 100})
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	// Non-positive limit falls back to 10
	for i := range 12 {
		store.SaveRun(Run{GameID: "many", Score: i})
	}
	scores, _ = store.TopScores("many", 0)
	if len(scores) != 10 {
		t.Errorf("Expected default limit of 10, got %d", len(scores))
	}
}

func TestStoreSaveRun(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{GameID: "blocks", Player: "alice", Score: 400, Level: 2, Lines: 12, Duration: 95 * time.Second},
		{GameID: "blocks", Score: 400, Level: 1, Lines: 4, Duration: 1500 * time.Millisecond},
		{GameID: "blocks", Player: "bob", Score: 900, Level: 3, Lines: 21, Duration: 5 * time.Minute},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("blocks", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}

	if top[0].Player != "bob" || top[0].Score != 900 {
		t.Errorf("top[0] = %+v, expected bob with 900", top[0])
	}
	// Equal scores are ordered by lines
	if top[1].Player != "alice" || top[1].Lines != 12 {
		t.Errorf("top[1] = %+v, expected alice with 12 lines", top[1])
	}
	if top[2].Player != "local" {
		t.Errorf("empty player should be stored as local, got %q", top[2].Player)
	}
	if top[2].Duration != time.Second {
		t.Errorf("Duration = %v, expected truncation to 1s", top[2].Duration)
	}
	if top[0].Duration != 5*time.Minute || top[0].Level != 3 {
		t.Errorf("top[0] = %+v, expected level 3 and 5m", top[0])
	}

	// Each run also lands in the scores table
	high, _ := store.HighScore("blocks")
	if high != 900 {
		t.Errorf("HighScore() = %d, expected 900", high)
	}
	scores, _ := store.TopScores("blocks", 10)
	if len(scores) != 3 {
		t.Errorf("Expected 3 scores from runs, got %d", len(scores))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("blocks")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveRun(Run{GameID: "blocks", Score: 100})
	store.SaveRun(Run{GameID: "blocks", Score: 300})
	store.SaveRun(Run{GameID: "blocks", Score: 200})

	high, err = store.HighScore("blocks")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{GameID: "blocks", Score: 100})
	store.SaveRun(Run{GameID: "blocks", Score: 200})
	store.SaveRun(Run{GameID: "other", Score: 300})

	if err := store.ClearScores("blocks"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("blocks", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if runs, _ := store.TopRuns("blocks", 10); len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}

	if runs, _ := store.TopRuns("other", 10); len(runs) != 1 {
		t.Error("other game should not be affected by clearing blocks")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("blocks")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v, expected zero values", empty)
	}

	store.SaveRun(Run{GameID: "blocks", Score: 100, Level: 1, Lines: 1})
	store.SaveRun(Run{GameID: "blocks", Score: 500, Level: 2, Lines: 12})

	stats, err := store.GetGameStats("blocks")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"GamesCount", stats.GamesCount, 2},
		{"HighScore", stats.HighScore, 500},
		{"AvgScore", stats.AvgScore, 300.0},
		{"TotalScore", stats.TotalScore, int64(600)},
		{"TotalLines", stats.TotalLines, int64(13)},
		{"BestLevel", stats.BestLevel, 2},
	}
	for _, tc := range tests {
		if tc.got != tc.expected {
			t.Errorf("%s = %v, expected %v", tc.name, tc.got, tc.expected)
		}
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/nested/deep/test.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, "nested", "deep", "test.db")); os.IsNotExist(err) {
		t.Error("Database file was not created under the home directory")
	}
}

func TestInsertScoreOutsideTransaction(t *testing.T) {
	store := openTestStore(t)

	if err := insertScore(store.db, "blocks", 250); err != nil {
		t.Fatalf("insertScore() failed: %v", err)
	}

	high, _ := store.HighScore("blocks")
	if high != 250 {
		t.Errorf("HighScore() = %d, expected 250", high)
	}
	// A bare score has no run row
	if runs, _ := store.TopRuns("blocks", 10); len(runs) != 0 {
		t.Errorf("Expected 0 runs, got %d", len(runs))
	}
}

func TestParseTime(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name     string
		in       any
		expected time.Time
	}{
		{"time value", now, now},
		{"sqlite string", "2024-05-06 07:08:09", now},
		{"garbage", "yesterday", time.Time{}},
		{"nil", nil, time.Time{}},
	}
	for _, tc := range tests {
		if got := parseTime(tc.in); !got.Equal(tc.expected) {
			t.Errorf("parseTime(%s) = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}
