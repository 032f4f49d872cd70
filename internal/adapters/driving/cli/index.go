package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

var rebuildURLs []string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the question answering index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Load the persisted index, building it if missing",
	RunE:  runIndexBuild,
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from the website",
	Long: `Fetches every configured page (or the pages given with --url),
rebuilds the index and replaces the persisted copy.

Examples:
  campus index rebuild
  campus index rebuild --url https://example.edu/ --url https://example.edu/admissions`,
	RunE: runIndexRebuild,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted index",
	RunE:  runIndexStatus,
}

func init() {
	indexRebuildCmd.Flags().StringSliceVar(&rebuildURLs, "url", nil, "page to index (repeatable)")
	indexCmd.AddCommand(indexBuildCmd, indexRebuildCmd, indexStatusCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Index.Start(cmd.Context()); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	meta, _ := a.Index.Metadata()
	printMetadata(cmd, "Index ready", meta)
	return nil
}

func runIndexRebuild(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Index.Rebuild(cmd.Context(), rebuildURLs); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}

	meta, _ := a.Index.Metadata()
	printMetadata(cmd, "Index rebuilt", meta)
	return nil
}

func runIndexStatus(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Location: %s\n", a.IndexStore.Location())

	meta, _, err := a.IndexStore.Load(cmd.Context())
	switch {
	case errors.Is(err, domain.ErrIndexNotFound):
		fmt.Fprintln(out, "No index has been built yet. Run \"campus index build\".")
		return nil
	case err != nil:
		return fmt.Errorf("read index: %w", err)
	}

	printMetadata(cmd, "Index", meta)
	return nil
}

func printMetadata(cmd *cobra.Command, title string, meta domain.IndexMetadata) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d chunks\n", title, meta.ChunkCount)
	fmt.Fprintf(out, "  Model:     %s\n", meta.Model)
	fmt.Fprintf(out, "  Dimension: %d\n", meta.Dimension)
	fmt.Fprintf(out, "  Created:   %s\n", meta.CreatedAt.Format(time.RFC3339))
}
