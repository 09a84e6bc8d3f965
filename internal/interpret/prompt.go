package interpret

import (
	"fmt"
	"strings"

	"github.com/pable/hoopstats/internal/stat"
)

const systemPromptHead = `You translate basketball statistics questions into one JSON request for a
box-score query engine. Reply with JSON only, no prose and no code fences.

Functions:
- ranking-by-age: career totals, optionally bounded by age at game time.
  params: label, min_age, max_age, game_type, top_n, aggfunc (sum|avg), min_games, is_starter, team, season
  "by age 25" / "at 25 or younger" means max_age=25. Counting games with a
  condition ("40-point games") uses a condition label such as 40PTS+.
- achievement-count: number of games in which a condition label holds.
  params: label, game_type, min_age, max_age, top_n, min_games
- streak: longest run of consecutive games in which a condition holds.
  params: label, game_type, top_n
- threshold-reach: fewest games needed for a running total to reach a value.
  params: label (summable stat, not a condition), threshold, game_type, top_n
- rolling-window: best total over n consecutive games.
  params: label, n_games, game_type, top_n
- duel: head-to-head comparison of two players in games both played.
  params: label, game_type, player1, player2 (full English names)
- season-count: number of seasons whose total of a stat reaches threshold
  ("2000-point seasons"). params: label, threshold, game_type, top_n
- career-high: one player's best games by a stat, with date and opponent.
  params: label (summable stat), game_type, top_n, player (full English name)
- starter-split: one player's average as a starter versus off the bench.
  params: label, game_type, player (full English name)

game_type: regular (default), playoff (includes finals), final, all.
season is the starting year: 2023 means the 2023-24 season.
is_starter: true for starts only, false for bench games only.
`

const systemPromptTail = `
Output:
{"function": "<name>", "params": {...}, "description": "<one sentence>"}
When the question cannot be answered with these functions:
{"function": null, "params": {}, "description": "<why>"}
`

// systemPrompt lists functions and the label vocabulary.
func systemPrompt() string {
	var sb strings.Builder
	sb.WriteString(systemPromptHead)
	fmt.Fprintf(&sb, "\nLabels: %s\n", strings.Join(stat.Examples(), ", "))
	sb.WriteString("Conditions: DD, TD, Win, <N><STAT>+ (e.g. 40PTS+, 5_3P+), and joins with & (e.g. 25PTS+&10AST+).\n")
	sb.WriteString("Comparisons: <STAT><op><N> with op one of = != < <= > >= (e.g. 30PTS+&FTA=0 for 30-point games without a free throw).\n")
	sb.WriteString(systemPromptTail)
	return sb.String()
}
