package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/interpret"
	"github.com/pable/hoopstats/internal/logging"
	"github.com/pable/hoopstats/internal/metrics"
	"github.com/pable/hoopstats/internal/server"
)

var (
	serveAddr    string
	serveLogJSON bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query API over HTTP",
	Long: `Serve the engine over HTTP:

  POST /v1/query   {"function": "...", "params": {...}} -> result
  POST /v1/ask     {"question": "..."} -> translated request and result
  GET  /healthz    store reachability
  GET  /metrics    Prometheus metrics

/v1/ask is enabled only when an Anthropic API key is available.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config: :8080)")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", true, "log as JSON")
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := cfg.Addr
	if cmd.Flags().Changed("addr") {
		addr = serveAddr
	}
	log := logging.New(os.Stderr, cfg.LogLevel, serveLogJSON)
	logger = log

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m := metrics.NewManager(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithHistogramBuckets(cfg.LatencyBuckets),
	)
	eng := newEngine(db, m)

	var tr *interpret.Translator
	if llm, err := interpret.NewAnthropic("", cfg.AnthropicModel); err == nil {
		tr = interpret.New(llm, db)
	} else if errors.Is(err, interpret.ErrNoAPIKey) {
		log.Warn("ask endpoint disabled", slog.String("reason", err.Error()))
	} else {
		return fmt.Errorf("language model: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(eng, db, tr, m, log)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("server stopped")
	return nil
}
