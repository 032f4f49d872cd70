// Package cli provides the campus command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/campus-assistant/internal/app"
	"github.com/custodia-labs/campus-assistant/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var (
	configDir string
	verbose   bool
)

// newApp builds the application for a command. Tests swap it to inject
// stub generators.
var newApp = func(ctx context.Context, opts app.Options) (*app.App, error) {
	return app.New(ctx, opts)
}

var rootCmd = &cobra.Command{
	Use:   "campus",
	Short: "Answer questions about the university from its website",
	Long: `campus indexes the university website and answers questions about it
with short bullet points and the pages they came from.

Run "campus serve" for the HTTP API, "campus ask" for a one-off question,
or "campus tui" for an interactive session.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default ~/.campus)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadApp builds the application from the persistent flags.
func loadApp(cmd *cobra.Command) (*app.App, error) {
	return newApp(cmd.Context(), app.Options{ConfigDir: configDir})
}
