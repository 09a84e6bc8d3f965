// Package engine runs the analytical functions over the record store. Every
// function validates its parameters and resolves its label before the first
// read, then does its sequence work in process.
package engine

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pable/hoopstats/internal/logging"
	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/stat"
	"github.com/pable/hoopstats/internal/storage"
)

const (
	defaultTopN   = 10
	defaultMaxTop = 100
)

// Store is the read surface the engines need. *storage.DB satisfies it.
type Store interface {
	Events(ctx context.Context, f storage.Filter) ([]model.Event, error)
	Totals(ctx context.Context, q storage.TotalsQuery) ([]storage.Total, error)
	GetPlayer(ctx context.Context, id string) (*model.Player, error)
}

// Recorder receives per-query measurements. *metrics.Manager satisfies it.
type Recorder interface {
	RecordQuery(function, status string, d time.Duration)
	RecordEventsScanned(n int)
	RecordStoreError()
}

type nopRecorder struct{}

func (nopRecorder) RecordQuery(string, string, time.Duration) {}
func (nopRecorder) RecordEventsScanned(int)                   {}
func (nopRecorder) RecordStoreError()                         {}

// Engine dispatches requests to the analytical functions. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	store           Store
	log             *slog.Logger
	rec             Recorder
	defaultTopN     int
	maxTopN         int
	defaultGameType model.GameType
	league          string
	exclude         []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger; the default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.rec = r
		}
	}
}

// WithTopN sets the default and maximum top_n.
func WithTopN(def, maxN int) Option {
	return func(e *Engine) {
		if def > 0 {
			e.defaultTopN = def
		}
		if maxN > 0 {
			e.maxTopN = maxN
		}
	}
}

// WithDefaultGameType sets the game type used when a request names none.
func WithDefaultGameType(gt model.GameType) Option {
	return func(e *Engine) {
		if gt.Valid() {
			e.defaultGameType = gt
		}
	}
}

// WithLeague sets the league used when a request names none. "all" disables
// the league filter.
func WithLeague(league string) Option {
	return func(e *Engine) {
		if league != "" {
			e.league = league
		}
	}
}

// WithExcludedPlayers drops the named players (id or name) from every
// function that ranks the whole field. Functions that name their players
// explicitly are not affected.
func WithExcludedPlayers(names ...string) Option {
	return func(e *Engine) {
		e.exclude = append(e.exclude, names...)
	}
}

// New returns an Engine reading from store.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:           store,
		log:             logging.Discard(),
		rec:             nopRecorder{},
		defaultTopN:     defaultTopN,
		maxTopN:         defaultMaxTop,
		defaultGameType: model.GameRegular,
		league:          "NBA",
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.defaultTopN > e.maxTopN {
		e.defaultTopN = e.maxTopN
	}
	return e
}

// query is a validated request: defaults applied, label resolved.
type query struct {
	fn     model.Function
	p      model.Params
	expr   stat.Expression
	filter storage.Filter
}

// Run validates req, runs the selected function and returns its ordered
// result. Errors are always *Error.
func (e *Engine) Run(ctx context.Context, req model.Request) (*model.Result, error) {
	start := time.Now()
	ctx, reqID := logging.EnsureRequestID(ctx)

	fn, res, err := e.run(ctx, req)

	// Only the closed set of functions becomes a metric label.
	metricFn := "invalid"
	if fn != "" {
		metricFn = string(fn)
	}
	status := "error"
	switch {
	case err != nil:
		status = strings.ToLower(string(KindOf(err)))
	case res != nil:
		status = string(res.Status)
	}
	elapsed := time.Since(start)
	e.rec.RecordQuery(metricFn, status, elapsed)

	attrs := []slog.Attr{
		slog.String("request_id", reqID),
		slog.String("function", string(req.Function)),
		slog.String("label", req.Params.Label),
		slog.String("status", status),
		slog.Duration("elapsed", elapsed),
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
		e.log.LogAttrs(ctx, slog.LevelWarn, "query failed", attrs...)
		return nil, err
	}
	attrs = append(attrs, slog.Int("rows", len(res.Rows)))
	e.log.LogAttrs(ctx, slog.LevelInfo, "query", attrs...)
	return res, nil
}

// run returns the parsed function alongside the result; it is "" when the
// selector is not one of the closed set.
func (e *Engine) run(ctx context.Context, req model.Request) (model.Function, *model.Result, error) {
	fn, _ := model.ParseFunction(string(req.Function))
	q, err := e.prepare(req)
	if err != nil {
		return fn, nil, err
	}

	var res *model.Result
	switch q.fn {
	case model.FuncRankingByAge:
		res, err = e.ranking(ctx, q)
	case model.FuncAchievementCount:
		res, err = e.achievements(ctx, q)
	case model.FuncStreak:
		res, err = e.streaks(ctx, q)
	case model.FuncThresholdReach:
		res, err = e.reach(ctx, q)
	case model.FuncRollingWindow:
		res, err = e.window(ctx, q)
	case model.FuncDuel:
		res, err = e.duel(ctx, q)
	case model.FuncSeasonCount:
		res, err = e.seasonCount(ctx, q)
	case model.FuncCareerHigh:
		res, err = e.careerHigh(ctx, q)
	case model.FuncStarterSplit:
		res, err = e.starterSplit(ctx, q)
	}
	if err != nil {
		return fn, nil, err
	}
	res.Function = q.fn
	res.Label = q.expr.Label()
	if res.Status == "" {
		res.Status = model.StatusOK
		if len(res.Rows) == 0 && res.Duel == nil {
			res.Status = model.StatusNoData
		}
	}
	return fn, res, nil
}

// prepare checks every parameter and resolves the label. It never touches
// the store.
func (e *Engine) prepare(req model.Request) (*query, error) {
	fn, ok := model.ParseFunction(string(req.Function))
	if !ok {
		return nil, invalidParam("function", "unknown function %q", req.Function)
	}
	p := req.Params

	if strings.TrimSpace(p.Label) == "" {
		return nil, invalidParam("label", "label is required")
	}
	if p.GameType == "" {
		p.GameType = e.defaultGameType
	}
	p.GameType = model.GameType(strings.ToLower(string(p.GameType)))
	if !p.GameType.Valid() {
		return nil, invalidParam("game_type", "must be one of all, regular, playoff, final; got %q", p.GameType)
	}
	if p.MinAge != nil && *p.MinAge < 0 {
		return nil, invalidParam("min_age", "must not be negative")
	}
	if p.MaxAge != nil && *p.MaxAge < 0 {
		return nil, invalidParam("max_age", "must not be negative")
	}
	if p.MinAge != nil && p.MaxAge != nil && *p.MinAge > *p.MaxAge {
		return nil, invalidParam("min_age", "min_age %d exceeds max_age %d", *p.MinAge, *p.MaxAge)
	}
	switch {
	case p.TopN < 0:
		return nil, invalidParam("top_n", "must be positive")
	case p.TopN == 0:
		p.TopN = e.defaultTopN
	case p.TopN > e.maxTopN:
		p.TopN = e.maxTopN
	}
	if p.MinGames < 0 {
		return nil, invalidParam("min_games", "must not be negative")
	}
	switch p.Aggregation {
	case "":
		p.Aggregation = model.AggSum
	case model.AggSum, model.AggAvg:
	default:
		return nil, invalidParam("aggfunc", "must be sum or avg; got %q", p.Aggregation)
	}
	if p.League == "" {
		p.League = e.league
	}

	switch fn {
	case model.FuncThresholdReach, model.FuncSeasonCount:
		if p.Threshold == nil {
			return nil, invalidParam("threshold", "threshold is required for %s", fn)
		}
		if t := *p.Threshold; math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
			return nil, invalidParam("threshold", "must be a positive finite number; got %g", t)
		}
	case model.FuncRollingWindow:
		if p.NGames == nil {
			return nil, invalidParam("n_games", "n_games is required for %s", fn)
		}
		if *p.NGames <= 0 {
			return nil, invalidParam("n_games", "must be positive; got %d", *p.NGames)
		}
	case model.FuncDuel:
		if len(p.EntityIDs) != 2 {
			return nil, invalidParam("entity_ids", "duel needs exactly two entity ids; got %d", len(p.EntityIDs))
		}
		a, b := strings.TrimSpace(p.EntityIDs[0]), strings.TrimSpace(p.EntityIDs[1])
		if a == "" || b == "" {
			return nil, invalidParam("entity_ids", "entity ids must not be empty")
		}
		if a == b {
			return nil, invalidParam("entity_ids", "duel needs two distinct entities")
		}
		p.EntityIDs = []string{a, b}
	case model.FuncCareerHigh, model.FuncStarterSplit:
		if len(p.EntityIDs) != 1 {
			return nil, invalidParam("entity_ids", "%s needs exactly one entity id; got %d", fn, len(p.EntityIDs))
		}
		id := strings.TrimSpace(p.EntityIDs[0])
		if id == "" {
			return nil, invalidParam("entity_ids", "entity ids must not be empty")
		}
		p.EntityIDs = []string{id}
	}

	expr, err := stat.Resolve(p.Label, stat.Full)
	if err != nil {
		return nil, unsupportedLabel(err)
	}
	if (fn == model.FuncThresholdReach || fn == model.FuncCareerHigh) && expr.Boolean() {
		return nil, invalidParam("label", "%s is a condition; %s needs a summable stat", expr.Label(), fn)
	}

	f := filterFor(p)
	if fn != model.FuncDuel && !fn.SinglePlayer() && len(e.exclude) > 0 {
		f.Exclude = e.exclude
	}
	return &query{fn: fn, p: p, expr: expr, filter: f}, nil
}

func filterFor(p model.Params) storage.Filter {
	f := storage.Filter{
		GameType: p.GameType,
		MinAge:   p.MinAge,
		MaxAge:   p.MaxAge,
		Starter:  p.Starter,
		Team:     strings.TrimSpace(p.Team),
		Season:   p.Season,
	}
	if !strings.EqualFold(p.League, "all") {
		f.League = strings.ToUpper(p.League)
	}
	if p.GameType == model.GameAll {
		f.GameType = ""
	}
	return f
}

// events reads the sequence input for the per-entity engines.
func (e *Engine) events(ctx context.Context, f storage.Filter) ([]model.Event, error) {
	events, err := e.store.Events(ctx, f)
	if err != nil {
		e.rec.RecordStoreError()
		return nil, storeUnavailable("read events", err)
	}
	e.rec.RecordEventsScanned(len(events))
	return events, nil
}

// candidate is one entity's outcome before global ordering.
type candidate struct {
	row model.Row
	// key is the tie-break date: run end, reach date or window start.
	key string
}

// rank orders candidates with less, then by player id, keeps topN and
// assigns 1-based ranks.
func rank(cands []candidate, topN int, less func(a, b *candidate) int) []model.Row {
	sort.SliceStable(cands, func(i, j int) bool {
		if c := less(&cands[i], &cands[j]); c != 0 {
			return c < 0
		}
		return cands[i].row.PlayerID < cands[j].row.PlayerID
	})
	if topN > 0 && len(cands) > topN {
		cands = cands[:topN]
	}
	rows := make([]model.Row, len(cands))
	for i := range cands {
		rows[i] = cands[i].row
		rows[i].Rank = i + 1
	}
	return rows
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
