package cmd

import "github.com/pable/hoopstats/internal/model"

var (
	seasonsFlags     paramFlags
	seasonsThreshold float64
)

var seasonsCmd = engineCommand(
	"seasons <label>",
	"Number of seasons in which a total reached a threshold",
	`Count, per player, the seasons whose total of a stat reached --threshold.
Regular season games only unless --type says otherwise.

Examples:
  hoopstats seasons PTS --threshold 2000
  hoopstats seasons TD --threshold 10`,
	model.FuncSeasonCount, &seasonsFlags,
	func(p *model.Params) {
		t := seasonsThreshold
		p.Threshold = &t
	},
)

func init() {
	seasonsFlags.register(seasonsCmd)
	seasonsCmd.Flags().Float64Var(&seasonsThreshold, "threshold", 0, "season total to reach (required)")
	_ = seasonsCmd.MarkFlagRequired("threshold")
}
