package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/stat"
)

// Filter restricts which events a read returns. The zero value passes every
// played game.
type Filter struct {
	PlayerIDs []string
	GameType  model.GameType
	League    string
	MinAge    *int
	MaxAge    *int
	Starter   *bool
	Team      string
	Season    *int
	// Exclude drops players whose id or name is listed.
	Exclude []string
}

// ForPlayer returns a copy of f scoped to exactly one player.
func (f Filter) ForPlayer(id string) Filter {
	f.PlayerIDs = []string{id}
	return f
}

const eventFrom = `boxscore b
		JOIN games g ON g.game_id = b.game_id
		LEFT JOIN players p ON p.player_id = b.player_id`

// ageExpr is the player's age in whole calendar years on the game date:
// the year difference, minus one when the birthday has not come yet.
const ageExpr = `(CAST(strftime('%Y', g.game_date) AS INTEGER) - CAST(strftime('%Y', p.birth_date) AS INTEGER)
		 - CASE WHEN strftime('%m-%d', g.game_date) < strftime('%m-%d', p.birth_date) THEN 1 ELSE 0 END)`

// selectBuilder composes the filter/join/group/order primitives every read
// shares, keeping placeholder arguments in clause order.
type selectBuilder struct {
	cols       []string
	where      []string
	whereArgs  []any
	groupBy    string
	having     []string
	havingArgs []any
	orderBy    string
	limit      int
}

func selectEvents(cols ...string) *selectBuilder {
	return &selectBuilder{cols: cols}
}

func (b *selectBuilder) whereCond(cond string, args ...any) *selectBuilder {
	b.where = append(b.where, cond)
	b.whereArgs = append(b.whereArgs, args...)
	return b
}

func (b *selectBuilder) havingCond(cond string, args ...any) *selectBuilder {
	b.having = append(b.having, cond)
	b.havingArgs = append(b.havingArgs, args...)
	return b
}

func (b *selectBuilder) group(by string) *selectBuilder {
	b.groupBy = by
	return b
}

func (b *selectBuilder) order(by string) *selectBuilder {
	b.orderBy = by
	return b
}

func (b *selectBuilder) limitTo(n int) *selectBuilder {
	b.limit = n
	return b
}

// filter applies f. DNP rows (no points recorded) are never events.
func (b *selectBuilder) filter(f Filter) *selectBuilder {
	b.whereCond("b.pts IS NOT NULL")
	if len(f.PlayerIDs) > 0 {
		args := make([]any, len(f.PlayerIDs))
		for i, id := range f.PlayerIDs {
			args[i] = id
		}
		b.whereCond(fmt.Sprintf("b.player_id IN (%s)", placeholders(len(args))), args...)
	}
	switch f.GameType {
	case model.GameRegular:
		b.whereCond("g.game_type = ?", string(model.GameRegular))
	case model.GamePlayoff:
		b.whereCond("g.game_type IN (?, ?)", string(model.GamePlayoff), string(model.GameFinal))
	case model.GameFinal:
		b.whereCond("g.game_type = ?", string(model.GameFinal))
	}
	if f.League != "" {
		b.whereCond("g.league = ?", f.League)
	}
	if f.MinAge != nil {
		b.whereCond("p.birth_date IS NOT NULL AND "+ageExpr+" >= ?", *f.MinAge)
	}
	if f.MaxAge != nil {
		b.whereCond("p.birth_date IS NOT NULL AND "+ageExpr+" <= ?", *f.MaxAge)
	}
	if f.Starter != nil {
		b.whereCond("b.is_starter = ?", boolInt(*f.Starter))
	}
	if f.Team != "" {
		b.whereCond("b.team LIKE ?", "%"+f.Team+"%")
	}
	if f.Season != nil {
		b.whereCond("g.season_start_year = ?", *f.Season)
	}
	if len(f.Exclude) > 0 {
		args := make([]any, 0, 2*len(f.Exclude))
		for _, id := range f.Exclude {
			args = append(args, id)
		}
		args = append(args, args...)
		in := placeholders(len(f.Exclude))
		b.whereCond(fmt.Sprintf("b.player_id NOT IN (%s) AND COALESCE(p.name, b.player_id) NOT IN (%s)", in, in), args...)
	}
	return b
}

func (b *selectBuilder) build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.cols, ", "))
	sb.WriteString("\n\t\tFROM ")
	sb.WriteString(eventFrom)
	if len(b.where) > 0 {
		sb.WriteString("\n\t\tWHERE ")
		sb.WriteString(strings.Join(b.where, "\n\t\t  AND "))
	}
	if b.groupBy != "" {
		sb.WriteString("\n\t\tGROUP BY ")
		sb.WriteString(b.groupBy)
	}
	if len(b.having) > 0 {
		sb.WriteString("\n\t\tHAVING ")
		sb.WriteString(strings.Join(b.having, " AND "))
	}
	if b.orderBy != "" {
		sb.WriteString("\n\t\tORDER BY ")
		sb.WriteString(b.orderBy)
	}
	args := append(append([]any{}, b.whereArgs...), b.havingArgs...)
	if b.limit > 0 {
		sb.WriteString("\n\t\tLIMIT ?")
		args = append(args, b.limit)
	}
	return sb.String(), args
}

// exprSQL renders a resolved expression over the b/g aliases. ok is false
// when the expression has no SQL form and must be evaluated after fetch.
func exprSQL(e stat.Expression) (string, bool) {
	switch v := e.(type) {
	case stat.Field:
		return fmt.Sprintf("COALESCE(b.%s, 0)", v.Stat.Column()), true
	case stat.Threshold:
		return thresholdSQL(v), true
	case stat.Composite:
		terms := make([]string, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = thresholdSQL(t)
		}
		return fmt.Sprintf("CASE WHEN (%s) >= %d THEN 1 ELSE 0 END", strings.Join(terms, " + "), v.Need), true
	case stat.Win:
		return "CASE WHEN b.team <> '' AND b.team = g.winner THEN 1 ELSE 0 END", true
	}
	return "", false
}

func thresholdSQL(t stat.Threshold) string {
	return fmt.Sprintf("CASE WHEN COALESCE(b.%s, 0) %s %s THEN 1 ELSE 0 END",
		t.Stat.Column(), t.Op, strconv.FormatFloat(t.Bound, 'f', -1, 64))
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
