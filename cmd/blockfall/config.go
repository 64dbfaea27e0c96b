package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
)

var flagConfigWrite bool

var configCmd = &cobra.Command{
	Use:   "config [game]",
	Short: "Print the default game config",
	Long: `Print the built-in YAML config for a game.

With --write the file is saved to ~/.blockfall/configs/<game>.yaml, where
it overrides the built-in values on the next run. An existing file is
never overwritten.

Examples:
  blockfall config > my-blocks.yaml
  blockfall config --write`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigWrite, "write", false, "Save the defaults to the user config directory")
}

func runConfig(cmd *cobra.Command, args []string) error {
	gameID := gameArg(args)
	data := config.GetDefaultYAML(gameID)
	if data == nil {
		return fmt.Errorf("no config for game %q", gameID)
	}

	if !flagConfigWrite {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, config.AppDir, "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	path := filepath.Join(dir, gameID+".yaml")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
