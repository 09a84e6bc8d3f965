package model

// Status distinguishes a populated result from a valid request that matched
// nothing.
type Status string

const (
	StatusOK     Status = "ok"
	StatusNoData Status = "no_data"
)

// Row is one ranked entity. Value carries the engine's headline number:
// total, count, streak length, games-to-reach or window sum.
type Row struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Games    int     `json:"games"`
	From     string  `json:"from,omitempty"`
	To       string  `json:"to,omitempty"`
	// Opponent is set on career-high rows, e.g. "vs BOS" or "@ LAL".
	Opponent string  `json:"opponent,omitempty"`
	// Role is set on starter-split rows: "starter" or "bench".
	Role     string  `json:"role,omitempty"`
}

// DuelSide names which entity won a single duel comparison.
type DuelSide string

const (
	SideA   DuelSide = "A"
	SideB   DuelSide = "B"
	SideTie DuelSide = "tie"
)

// DuelGame compares two entities' values in one shared game.
type DuelGame struct {
	GameID string   `json:"game_id"`
	Date   string   `json:"date"`
	TeamA  string   `json:"team_a"`
	TeamB  string   `json:"team_b"`
	ValueA float64  `json:"value_a"`
	ValueB float64  `json:"value_b"`
	Winner DuelSide `json:"winner"`
}

// Duel is the head-to-head breakdown between two entities.
type Duel struct {
	PlayerA Player     `json:"player_a"`
	PlayerB Player     `json:"player_b"`
	Games   []DuelGame `json:"games"`
	AWins   int        `json:"a_wins"`
	BWins   int        `json:"b_wins"`
	Ties    int        `json:"ties"`
	TotalA  float64    `json:"total_a"`
	TotalB  float64    `json:"total_b"`
}

// Result is what every engine returns.
type Result struct {
	Function Function `json:"function"`
	Label    string   `json:"label"`
	Status   Status   `json:"status"`
	Rows     []Row    `json:"rows,omitempty"`
	Duel     *Duel    `json:"duel,omitempty"`
}
