package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/stat"
)

// Aggregate selects how Totals folds per-event values.
type Aggregate int

const (
	// AggSum sums the expression.
	AggSum Aggregate = iota
	// AggAvg averages the expression.
	AggAvg
	// AggCount counts events where the expression holds.
	AggCount
)

// TotalsQuery is a per-player aggregate read.
type TotalsQuery struct {
	Filter   Filter
	Expr     stat.Expression
	Agg      Aggregate
	MinGames int
	// NonZero drops players whose aggregate is 0.
	NonZero bool
	// Limit caps the rows returned; 0 means no cap.
	Limit int
}

// Total is one player's aggregate.
type Total struct {
	PlayerID string
	Name     string
	Value    float64
	Games    int
}

// statColumns lists the boxscore columns in model.Stat order.
func statColumns() []string {
	cols := make([]string, model.NumStats)
	for i, st := range model.AllStats() {
		cols[i] = "b." + st.Column()
	}
	return cols
}

// Events returns event+game rows matching f, ordered by player id, then game
// date, then game id. Every player's events are therefore contiguous and in
// date order, even when several players are read at once.
func (db *DB) Events(ctx context.Context, f Filter) ([]model.Event, error) {
	cols := append([]string{
		"b.player_id", "COALESCE(p.name, b.player_id)", "b.game_id", "g.game_date",
		"b.team", "g.winner", "g.game_type", "g.season_start_year",
		"CASE WHEN b.team = g.home_team THEN g.away_team ELSE g.home_team END",
		"CASE WHEN b.team = g.home_team THEN 1 ELSE 0 END",
		"b.is_starter",
	}, statColumns()...)
	query, args := selectEvents(cols...).
		filter(f).
		order("b.player_id ASC, g.game_date ASC, b.game_id ASC").
		build()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	var stats [model.NumStats]sql.NullFloat64
	for rows.Next() {
		var ev model.Event
		var gameType string
		var home, starter int
		dest := []any{
			&ev.PlayerID, &ev.Name, &ev.GameID, &ev.Date, &ev.Team, &ev.Winner,
			&gameType, &ev.Season, &ev.Opponent, &home, &starter,
		}
		for i := range stats {
			dest = append(dest, &stats[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.GameType = model.GameType(gameType)
		ev.Home = home != 0
		ev.Starter = starter != 0
		for i, v := range stats {
			if v.Valid {
				ev.Stats[i] = v.Float64
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Totals aggregates q.Expr per player. The expression is pushed into SQL when
// it has a SQL form; otherwise events are fetched and folded in process. Both
// paths return rows ordered by value descending, then player id.
func (db *DB) Totals(ctx context.Context, q TotalsQuery) ([]Total, error) {
	expr, ok := exprSQL(q.Expr)
	if !db.pushdown || !ok {
		events, err := db.Events(ctx, q.Filter)
		if err != nil {
			return nil, err
		}
		return FoldTotals(events, q), nil
	}

	var agg string
	switch q.Agg {
	case AggAvg:
		agg = fmt.Sprintf("AVG(%s)", expr)
	case AggCount:
		agg = fmt.Sprintf("SUM(CASE WHEN (%s) >= 1 THEN 1 ELSE 0 END)", expr)
	default:
		agg = fmt.Sprintf("SUM(%s)", expr)
	}

	b := selectEvents("b.player_id", "MAX(COALESCE(p.name, b.player_id))", agg, "COUNT(*)").
		filter(q.Filter).
		group("b.player_id").
		order("3 DESC, b.player_id ASC").
		limitTo(q.Limit)
	if q.MinGames > 1 {
		b.havingCond("COUNT(*) >= ?", q.MinGames)
	}
	if q.NonZero {
		b.havingCond(agg + " <> 0")
	}
	query, args := b.build()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	var out []Total
	for rows.Next() {
		var t Total
		if err := rows.Scan(&t.PlayerID, &t.Name, &t.Value, &t.Games); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// FoldTotals is the in-process form of Totals over events already filtered
// and ordered by player.
func FoldTotals(events []model.Event, q TotalsQuery) []Total {
	var out []Total
	ForEachPlayer(events, func(seq []model.Event) {
		var sum float64
		for i := range seq {
			v := q.Expr.Eval(&seq[i])
			if q.Agg == AggCount {
				if v >= 1 {
					sum++
				}
				continue
			}
			sum += v
		}
		t := Total{PlayerID: seq[0].PlayerID, Name: seq[0].Name, Value: sum, Games: len(seq)}
		if q.Agg == AggAvg {
			t.Value = sum / float64(len(seq))
		}
		if q.MinGames > 1 && t.Games < q.MinGames {
			return
		}
		if q.NonZero && t.Value == 0 {
			return
		}
		out = append(out, t)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return strings.Compare(out[i].PlayerID, out[j].PlayerID) < 0
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// ForEachPlayer calls fn once per run of consecutive events sharing a player
// id. Events must already be grouped by player, as Events returns them.
func ForEachPlayer(events []model.Event, fn func(seq []model.Event)) {
	start := 0
	for i := 1; i <= len(events); i++ {
		if i == len(events) || events[i].PlayerID != events[start].PlayerID {
			fn(events[start:i])
			start = i
		}
	}
}
