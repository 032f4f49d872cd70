package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/campus-assistant/internal/adapters/driving/tui"
	"github.com/custodia-labs/campus-assistant/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for asking questions.

The index loads in the background; the status bar shows its progress.

Controls:
  Enter    - Ask
  ↑/k, ↓/j - Browse sources
  n        - New question
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runProgram runs the bubbletea program. Tests replace it.
var runProgram = func(app *tui.App) error {
	return app.Run()
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Log lines would corrupt the alternate screen.
	if !verbose {
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	app, err := tui.NewApp(&tui.Ports{Answer: a.Answer, Index: a.Index})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	a.WatchPrompts(ctx)
	// A failed start shows as "index: failed" in the status bar.
	go func() { <-a.StartIndex(ctx) }()

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
