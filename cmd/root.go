package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/config"
	"github.com/pable/hoopstats/internal/engine"
	"github.com/pable/hoopstats/internal/logging"
	"github.com/pable/hoopstats/internal/metrics"
	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

var (
	dbPath   string
	logLevel string
	jsonOut  bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hoopstats",
	Short: "NBA box-score query engine",
	Long: `Rank players over a box-score store: career totals by age, achievement
counts, streaks, games to reach a total, best n-game spans, head-to-head duels,
seasons reaching a total, career highs and starter/bench splits.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default from config: ~/.hoopstats/boxscores.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(achieveCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(reachCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(duelCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(careerCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig layers flags over the koanf config and builds the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		c.DBPath = dbPath
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = logLevel
	}
	cfg = c
	dbPath = c.DBPath
	logger = logging.New(os.Stderr, c.LogLevel, false)
	return nil
}

// openStore opens the configured database, creating its directory first.
func openStore() (*storage.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// newEngine builds an engine over db with the configured defaults. m may
// be nil.
func newEngine(db *storage.DB, m *metrics.Manager) *engine.Engine {
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithTopN(cfg.DefaultTopN, cfg.MaxTopN),
		engine.WithDefaultGameType(model.GameType(cfg.DefaultGameType)),
		engine.WithLeague(cfg.League),
		engine.WithExcludedPlayers(cfg.ExcludedPlayers()...),
	}
	if m != nil {
		opts = append(opts, engine.WithRecorder(m))
	}
	return engine.New(db, opts...)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
