// Package config loads hoopstats settings from defaults, an optional YAML
// file and HOOPSTATS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pable/hoopstats/internal/model"
)

const (
	envPrefix = "HOOPSTATS_"
	// FileEnv names the variable holding the YAML config path.
	FileEnv = "HOOPSTATS_CONFIG"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DefaultTopN applies when a request omits top_n; MaxTopN caps it.
	DefaultTopN int `koanf:"default_top_n"`
	MaxTopN     int `koanf:"max_top_n"`

	// DefaultGameType applies when a request omits game_type.
	DefaultGameType string `koanf:"default_game_type"`

	// League applies when a request omits league; "all" disables the filter.
	League string `koanf:"league"`

	// AnthropicModel is the model used to translate questions.
	AnthropicModel string `koanf:"anthropic_model"`

	// Addr is the HTTP listen address for serve.
	Addr string `koanf:"addr"`

	// ExcludeDuplicateNames drops DuplicateNames from leaderboards. Imported
	// ids fall back to player names, so these players' careers are merged.
	ExcludeDuplicateNames bool `koanf:"exclude_duplicate_names"`
	// ExcludePlayers lists further ids or names to drop from leaderboards.
	ExcludePlayers []string `koanf:"exclude_players"`

	// MetricsNamespace prefixes every Prometheus metric.
	MetricsNamespace string `koanf:"metrics_namespace"`
	// LatencyBuckets are the query latency histogram buckets in seconds.
	LatencyBuckets []float64 `koanf:"latency_buckets"`
}

// DuplicateNames are players who share a name with another player.
var DuplicateNames = []string{
	"Eddie Johnson",
	"George Johnson",
	"Mike Dunleavy",
	"David Lee",
	"Jim Paxson",
	"Larry Johnson",
	"Matt Guokas",
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		DBPath:          filepath.Join(userHome(), ".hoopstats", "boxscores.db"),
		LogLevel:        "warn",
		DefaultTopN:     10,
		MaxTopN:         100,
		DefaultGameType: string(model.GameRegular),
		League:          "NBA",
		AnthropicModel:  "claude-haiku-4-5-20251001",
		Addr:            ":8080",

		ExcludeDuplicateNames: true,
		MetricsNamespace:      "hoopstats",
		LatencyBuckets:        []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}
}

// ExcludedPlayers is the full leaderboard exclusion list.
func (c *Config) ExcludedPlayers() []string {
	var out []string
	if c.ExcludeDuplicateNames {
		out = append(out, DuplicateNames...)
	}
	for _, p := range c.ExcludePlayers {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HOOPSTATS_CONFIG is set
//  3. env (prefix HOOPSTATS_)
func Load() (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	// HOOPSTATS_MAX_TOP_N -> max_top_n; underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *base
	// Lists replace the defaults rather than merging into them.
	if k.Exists("latency_buckets") {
		cfg.LatencyBuckets = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	if c.DefaultTopN <= 0 || c.MaxTopN <= 0 {
		return fmt.Errorf("%w: default_top_n and max_top_n must be positive", ErrInvalidConfig)
	}
	if c.DefaultTopN > c.MaxTopN {
		return fmt.Errorf("%w: default_top_n %d exceeds max_top_n %d", ErrInvalidConfig, c.DefaultTopN, c.MaxTopN)
	}
	if !model.GameType(c.DefaultGameType).Valid() {
		return fmt.Errorf("%w: default_game_type %q", ErrInvalidConfig, c.DefaultGameType)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.MetricsNamespace == "" {
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	}
	for i, b := range c.LatencyBuckets {
		if b <= 0 || (i > 0 && b <= c.LatencyBuckets[i-1]) {
			return fmt.Errorf("%w: latency_buckets must be positive and increasing", ErrInvalidConfig)
		}
	}
	return nil
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
