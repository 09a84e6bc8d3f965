package cmd

import "github.com/pable/hoopstats/internal/model"

var streakFlags paramFlags

var streakCmd = engineCommand(
	"streak <label>",
	"Longest run of consecutive games in which a condition holds",
	`Find each player's longest run of consecutive played games in which the
label holds. A plain stat label holds when it is at least 1.

Examples:
  hoopstats streak 20PTS+
  hoopstats streak Win --type all`,
	model.FuncStreak, &streakFlags, nil,
)

func init() {
	streakFlags.register(streakCmd)
}
