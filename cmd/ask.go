package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/interpret"
	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

var (
	askModel  string
	askAPIKey string
	askDryRun bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a plain-English question (requires ANTHROPIC_API_KEY)",
	Long: `Translate a question into an engine request with an Anthropic model, then
run it. The translated request is printed before the result.

Example:
  hoopstats ask "who scored the most points by age 25?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askModel, "model", "", "Anthropic model to use (default from config)")
	askCmd.Flags().StringVar(&askAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	askCmd.Flags().BoolVar(&askDryRun, "dry-run", false, "print the translated request without running it")
}

func newTranslator(db *storage.DB) (*interpret.Translator, error) {
	modelID := askModel
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}
	llm, err := interpret.NewAnthropic(askAPIKey, modelID)
	if err != nil {
		return nil, err
	}
	return interpret.New(llm, db), nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	tr, err := newTranslator(db)
	if err != nil {
		return err
	}
	return ask(cmd.Context(), db, tr, strings.Join(args, " "))
}

// ask translates question, prints the request and runs it.
func ask(ctx context.Context, db *storage.DB, tr *interpret.Translator, question string) error {
	out, err := tr.Translate(ctx, question)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	if jsonOut && askDryRun {
		return printJSON(out)
	}
	if !jsonOut {
		color.New(color.Faint).Fprintf(os.Stdout, "%s\n", describe(out))
	}
	if askDryRun {
		return nil
	}

	res, err := newEngine(db, nil).Run(ctx, out.Request)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	return printResult(res)
}

func describe(t *interpret.Translation) string {
	p := t.Request.Params
	parts := []string{string(t.Request.Function), "label=" + p.Label}
	if p.GameType != "" {
		parts = append(parts, "type="+string(p.GameType))
	}
	if p.MaxAge != nil {
		parts = append(parts, fmt.Sprintf("max_age=%d", *p.MaxAge))
	}
	if p.MinAge != nil {
		parts = append(parts, fmt.Sprintf("min_age=%d", *p.MinAge))
	}
	if p.Threshold != nil {
		parts = append(parts, fmt.Sprintf("threshold=%g", *p.Threshold))
	}
	if p.NGames != nil {
		parts = append(parts, fmt.Sprintf("n_games=%d", *p.NGames))
	}
	if t.Request.Function == model.FuncDuel || t.Request.Function.SinglePlayer() {
		parts = append(parts, "players="+strings.Join(p.EntityIDs, ","))
	}
	line := strings.Join(parts, " ")
	if t.Description != "" {
		line = t.Description + "\n  " + line
	}
	return line
}
