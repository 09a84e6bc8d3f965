package cmd

import "github.com/pable/hoopstats/internal/model"

var (
	windowFlags paramFlags
	windowGames int
)

var windowCmd = engineCommand(
	"window <label>",
	"Best total over n consecutive games",
	`Rank players by their best sum of a stat over --games consecutive played
games.

Example:
  hoopstats window PTS --games 5 --type playoff`,
	model.FuncRollingWindow, &windowFlags,
	func(p *model.Params) {
		n := windowGames
		p.NGames = &n
	},
)

func init() {
	windowFlags.register(windowCmd)
	windowCmd.Flags().IntVar(&windowGames, "games", 0, "window length in games (required)")
	_ = windowCmd.MarkFlagRequired("games")
}
