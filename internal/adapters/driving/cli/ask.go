package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the university",
	Long: `Loads the index (building it first if needed) and answers one question.

Examples:
  campus ask "When do admissions open?"
  campus ask --json what courses are offered`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// askOutput mirrors the HTTP /ask response body.
type askOutput struct {
	Answer  []string        `json:"answer"`
	Sources []domain.Source `json:"sources"`
	Status  string          `json:"status"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Index.Start(ctx); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	answer, err := a.Answer.Answer(ctx, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	outputAnswerText(cmd, answer, isTerminal(cmd.OutOrStdout()))
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	out := askOutput{
		Answer:  answer.Points,
		Sources: answer.Sources,
		Status:  "success",
	}
	if out.Sources == nil {
		out.Sources = []domain.Source{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

var (
	sourceHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	sourceURL     = lipgloss.NewStyle().Underline(true)
	previewText   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer, styled bool) {
	out := cmd.OutOrStdout()
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	if len(answer.Points) == 0 {
		fmt.Fprintln(out, "No answer was generated.")
	}
	for _, point := range answer.Points {
		fmt.Fprintln(out, point)
	}

	if len(answer.Sources) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, render(sourceHeading, "Sources:"))
	for i, src := range answer.Sources {
		fmt.Fprintf(out, "  [%d] %s\n", i+1, render(sourceURL, src.Source))
		fmt.Fprintf(out, "      %s\n", render(previewText, src.ContentPreview))
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
