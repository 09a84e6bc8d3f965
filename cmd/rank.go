package cmd

import "github.com/pable/hoopstats/internal/model"

var rankFlags paramFlags

var rankCmd = engineCommand(
	"rank <label>",
	"Rank players by career total of a stat, optionally bounded by age",
	`Sum (or average) a stat over every qualifying game and rank players by it.
Condition labels such as 40PTS+ or DD count the games in which they hold.

Examples:
  hoopstats rank PTS --max-age 25
  hoopstats rank AST --type playoff --agg avg --min-games 20
  hoopstats rank 40PTS+ --top 20`,
	model.FuncRankingByAge, &rankFlags, nil,
)

func init() {
	rankFlags.register(rankCmd)
	rankFlags.registerRanking(rankCmd)
}
