package cmd

import "github.com/pable/hoopstats/internal/model"

var achieveFlags paramFlags

var achieveCmd = engineCommand(
	"achieve <label>",
	"Count the games in which a condition holds",
	`Count, per player, the games in which a condition label holds.

Examples:
  hoopstats achieve TD
  hoopstats achieve 30PTS+&10AST+ --type playoff`,
	model.FuncAchievementCount, &achieveFlags, nil,
)

func init() {
	achieveFlags.register(achieveCmd)
	achieveCmd.Flags().IntVar(&achieveFlags.minGames, "min-games", 0, "minimum games played to qualify")
}
