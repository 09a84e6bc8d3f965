package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/model"
)

var (
	careerFlags paramFlags
	splitFlags  paramFlags
)

var careerCmd = playerCommand(
	"career <label> <player>",
	"One player's best games by a stat",
	`List a player's best single games by a stat, with date and opponent.
The player is given by id or name.

Example:
  hoopstats career PTS "Kobe Bryant" --type all --top 5`,
	model.FuncCareerHigh, &careerFlags,
)

var splitCmd = playerCommand(
	"split <label> <player>",
	"One player's averages as a starter and off the bench",
	`Average a stat over a player's starts and over their bench games.

Example:
  hoopstats split PTS "Manu Ginobili"`,
	model.FuncStarterSplit, &splitFlags,
)

func init() {
	careerFlags.register(careerCmd)
	splitFlags.register(splitCmd)
}

// playerCommand builds a "<use> <label> <player>" command for a function
// that reads one named player.
func playerCommand(use, short, long string, fn model.Function, p *paramFlags) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := resolveID(ctx, db, args[1])
			if err != nil {
				return err
			}
			params := p.params(cmd, args[0])
			params.EntityIDs = []string{id}
			res, err := newEngine(db, nil).Run(ctx, model.Request{Function: fn, Params: params})
			if err != nil {
				return fmt.Errorf("%s: %w", fn, err)
			}
			return printResult(res)
		},
	}
}
