package cmd

import "github.com/pable/hoopstats/internal/model"

var (
	reachFlags     paramFlags
	reachThreshold float64
)

var reachCmd = engineCommand(
	"reach <label>",
	"Fewest games needed for a running total to reach a threshold",
	`Rank players by how many games their running total of a stat took to
reach --threshold. Players who never reach it are left out.

Example:
  hoopstats reach PTS --threshold 10000`,
	model.FuncThresholdReach, &reachFlags,
	func(p *model.Params) {
		t := reachThreshold
		p.Threshold = &t
	},
)

func init() {
	reachFlags.register(reachCmd)
	reachCmd.Flags().Float64Var(&reachThreshold, "threshold", 0, "running total to reach (required)")
	_ = reachCmd.MarkFlagRequired("threshold")
}
