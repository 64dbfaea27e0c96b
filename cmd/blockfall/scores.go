package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagScoresTUI     bool
	flagScoresLimit   int
	flagScoresClear   bool
	flagScoresCompact bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show the best runs for a game",
	Long: `Display the best runs (score, level, lines, duration) for a game.

Examples:
  blockfall scores
  blockfall scores --limit 25
  blockfall scores --tui
  blockfall scores --compact
  blockfall scores --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores in an interactive table")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores for the game")
	scoresCmd.Flags().BoolVar(&flagScoresCompact, "compact", false, "Only list scores and dates")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := gameArg(args)

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'blockfall list' to see available games.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Printf("Cleared all scores for %s.\n", game.Title())
		return
	}

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, gameID, flagScoresLimit, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
		}
		return
	}

	if flagScoresCompact {
		printCompactScores(store, gameID)
		return
	}

	runs, err := store.TopRuns(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'blockfall play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-12s  %8s  %5s  %5s  %8s  %s\n", "Rank", "Player", "Score", "Level", "Lines", "Time", "Date")
	fmt.Printf("  %-4s  %-12s  %8s  %5s  %5s  %8s  %s\n", "----", "------", "-----", "-----", "-----", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-12s  %8d  %5d  %5d  %8s  %s\n",
			i+1, r.Player, r.Score, r.Level, r.Lines,
			r.Duration.Round(time.Second), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Printf("Best: %d  Games: %d  Lines cleared: %d\n", stats.HighScore, stats.GamesCount, stats.TotalLines)
	}
}

func printCompactScores(store *storage.Store, gameID string) {
	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}
	for i, s := range scores {
		fmt.Printf("%3d. %8d  %s\n", i+1, s.Score, s.CreatedAt.Format("2006-01-02 15:04"))
	}
}
