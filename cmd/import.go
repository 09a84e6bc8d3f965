package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/parser"
	"github.com/pable/hoopstats/internal/storage"
)

var (
	importPlayers  string
	importGames    string
	importBoxscore string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load players, games and box scores from CSV files",
	Long: `Load CSV exports into the store. Files may be gzip-compressed (.gz).
Games must be imported before (or together with) the box scores that
reference them. Re-importing a file replaces the rows it carries.

Example:
  hoopstats import --players Players_data_Latest.csv \
    --games games1946-2025.csv.gz --boxscore boxscore1946-2025.csv.gz`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importPlayers, "players", "", "player profiles CSV (name, birth_date)")
	importCmd.Flags().StringVar(&importGames, "games", "", "games CSV")
	importCmd.Flags().StringVar(&importBoxscore, "boxscore", "", "box score CSV")
	importCmd.MarkFlagsOneRequired("players", "games", "boxscore")
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	steps := []struct {
		name string
		path string
		load func(context.Context, *storage.DB, io.Reader) (int, error)
	}{
		{"players", importPlayers, loadPlayers},
		{"games", importGames, loadGames},
		{"boxscore", importBoxscore, loadBoxscore},
	}
	for _, s := range steps {
		if s.path == "" {
			continue
		}
		start := time.Now()
		n, err := importFile(ctx, db, s.path, s.load)
		if err != nil {
			return fmt.Errorf("import %s: %w", s.name, err)
		}
		logger.InfoContext(ctx, "imported",
			slog.String("table", s.name),
			slog.String("path", s.path),
			slog.Int("rows", n),
			slog.Duration("elapsed", time.Since(start)),
		)
		fmt.Fprintf(os.Stdout, "%-9s %8d rows  (%s)\n", s.name, n, s.path)
	}
	return nil
}

func importFile(ctx context.Context, db *storage.DB, path string, load func(context.Context, *storage.DB, io.Reader) (int, error)) (n int, err error) {
	rc, err := parser.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { err = errors.Join(err, rc.Close()) }()
	return load(ctx, db, rc)
}

func loadPlayers(ctx context.Context, db *storage.DB, r io.Reader) (int, error) {
	players, err := parser.ParsePlayers(r)
	if err != nil {
		return 0, err
	}
	return len(players), db.InsertPlayers(ctx, players)
}

func loadGames(ctx context.Context, db *storage.DB, r io.Reader) (int, error) {
	games, err := parser.ParseGames(r)
	if err != nil {
		return 0, err
	}
	return len(games), db.InsertGames(ctx, games)
}

func loadBoxscore(ctx context.Context, db *storage.DB, r io.Reader) (int, error) {
	lines, err := parser.ParseBoxscore(r)
	if err != nil {
		return 0, err
	}
	return len(lines), db.InsertEvents(ctx, lines)
}
