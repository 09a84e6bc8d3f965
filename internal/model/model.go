package model

import "strings"

// Stat identifies one stored numeric box-score field.
type Stat int

const (
	StatPTS Stat = iota
	StatTRB
	StatORB
	StatDRB
	StatAST
	StatSTL
	StatBLK
	StatTOV
	StatPF
	StatFG
	StatFGA
	Stat3P
	Stat3PA
	StatFT
	StatFTA
	StatMP
	StatPlusMinus
	StatGmSc

	NumStats
)

// statMeta maps each Stat to its label and boxscore column.
var statMeta = [NumStats]struct{ label, column string }{
	StatPTS:       {"PTS", "pts"},
	StatTRB:       {"TRB", "trb"},
	StatORB:       {"ORB", "orb"},
	StatDRB:       {"DRB", "drb"},
	StatAST:       {"AST", "ast"},
	StatSTL:       {"STL", "stl"},
	StatBLK:       {"BLK", "blk"},
	StatTOV:       {"TOV", "tov"},
	StatPF:        {"PF", "pf"},
	StatFG:        {"FG", "fg"},
	StatFGA:       {"FGA", "fga"},
	Stat3P:        {"3P", "fg3"},
	Stat3PA:       {"3PA", "fg3a"},
	StatFT:        {"FT", "ft"},
	StatFTA:       {"FTA", "fta"},
	StatMP:        {"MP", "mp"},
	StatPlusMinus: {"+/-", "plus_minus"},
	StatGmSc:      {"GmSc", "gmsc"},
}

// String returns the stat's label, e.g. "PTS" or "3P".
func (s Stat) String() string {
	if s < 0 || s >= NumStats {
		return "?"
	}
	return statMeta[s].label
}

// Column returns the boxscore column holding the stat.
func (s Stat) Column() string {
	return statMeta[s].column
}

// LookupStat finds a stored stat by label, case-insensitively.
func LookupStat(label string) (Stat, bool) {
	for i, m := range statMeta {
		if strings.EqualFold(m.label, label) {
			return Stat(i), true
		}
	}
	return 0, false
}

// AllStats returns every stored stat in declaration order.
func AllStats() []Stat {
	out := make([]Stat, NumStats)
	for i := range out {
		out[i] = Stat(i)
	}
	return out
}

// GameType classifies a game. Filters use "all" in addition to the stored kinds.
type GameType string

const (
	GameAll     GameType = "all"
	GameRegular GameType = "regular"
	GamePlayIn  GameType = "playin"
	GamePlayoff GameType = "playoff"
	GameFinal   GameType = "final"
)

// Valid reports whether t is usable as a filter value.
func (t GameType) Valid() bool {
	switch t {
	case GameAll, GameRegular, GamePlayoff, GameFinal:
		return true
	}
	return false
}

// Player is the profile used for display and age-at-event.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date,omitempty"` // "YYYY-MM-DD", empty when unknown
}

// Game is one game's metadata row.
type Game struct {
	ID              string
	Date            string // "YYYY-MM-DD"
	SeasonStartYear int
	League          string
	Type            GameType
	HomeTeam        string
	AwayTeam        string
	HomePoints      int
	AwayPoints      int
	Winner          string
}

// Event is one player's stat line for one game, joined with the game's
// date, type and winner.
type Event struct {
	PlayerID string
	Name     string
	GameID   string
	Date     string
	Team     string
	Winner   string
	GameType GameType
	Season   int // season start year
	Opponent string
	Home     bool
	Starter  bool
	Stats    [NumStats]float64
}

// Value returns the event's value for s. Unrecorded stats read as 0.
func (e *Event) Value(s Stat) float64 {
	return e.Stats[s]
}
