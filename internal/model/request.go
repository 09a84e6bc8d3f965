package model

import "strings"

// Function selects one of the analytical engines.
type Function string

const (
	FuncRankingByAge     Function = "ranking-by-age"
	FuncAchievementCount Function = "achievement-count"
	FuncStreak           Function = "streak"
	FuncThresholdReach   Function = "threshold-reach"
	FuncRollingWindow    Function = "rolling-window"
	FuncDuel             Function = "duel"
	FuncSeasonCount      Function = "season-count"
	FuncCareerHigh       Function = "career-high"
	FuncStarterSplit     Function = "starter-split"
)

// Functions lists the closed set of selectors in display order.
var Functions = []Function{
	FuncRankingByAge,
	FuncAchievementCount,
	FuncStreak,
	FuncThresholdReach,
	FuncRollingWindow,
	FuncDuel,
	FuncSeasonCount,
	FuncCareerHigh,
	FuncStarterSplit,
}

// functionAliases accepts the legacy analyzer method names that language
// models tend to emit.
var functionAliases = map[string]Function{
	"get_ranking_by_age":             FuncRankingByAge,
	"get_filtered_achievement_count": FuncAchievementCount,
	"get_combined_achievement_count": FuncAchievementCount,
	"get_consecutive_games":          FuncStreak,
	"get_games_to_reach":             FuncThresholdReach,
	"get_n_game_span_ranking":        FuncRollingWindow,
	"get_duel_ranking":               FuncDuel,
	"get_season_achievement_count":   FuncSeasonCount,
	"get_player_career_high":         FuncCareerHigh,
	"get_player_starter_comparison":  FuncStarterSplit,
}

// ParseFunction normalises a selector. ok is false for anything outside the
// closed set.
func ParseFunction(s string) (Function, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Functions {
		if string(f) == s {
			return f, true
		}
	}
	f, ok := functionAliases[s]
	return f, ok
}

// SinglePlayer reports whether f reads one named player rather than ranking
// the whole field.
func (f Function) SinglePlayer() bool {
	return f == FuncCareerHigh || f == FuncStarterSplit
}

// Aggregation selects how the ranking engine folds per-event values.
type Aggregation string

const (
	AggSum Aggregation = "sum"
	AggAvg Aggregation = "avg"
)

// Params is the per-request parameter record. Pointer fields distinguish
// "absent" from zero so validation can name a missing field.
type Params struct {
	Label       string      `json:"label"`
	MinAge      *int        `json:"min_age,omitempty"`
	MaxAge      *int        `json:"max_age,omitempty"`
	GameType    GameType    `json:"game_type,omitempty"`
	TopN        int         `json:"top_n,omitempty"`
	Threshold   *float64    `json:"threshold,omitempty"`
	NGames      *int        `json:"n_games,omitempty"`
	EntityIDs   []string    `json:"entity_ids,omitempty"`
	MinGames    int         `json:"min_games,omitempty"`
	Aggregation Aggregation `json:"aggfunc,omitempty"`
	Starter     *bool       `json:"is_starter,omitempty"`
	Team        string      `json:"team,omitempty"`
	Season      *int        `json:"season,omitempty"`
	League      string      `json:"league,omitempty"`
}

// Request is a function selector plus its parameters.
type Request struct {
	Function Function `json:"function"`
	Params   Params   `json:"params"`
}
