package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

var duelFlags paramFlags

var duelCmd = &cobra.Command{
	Use:   "duel <label> <player-a> <player-b>",
	Short: "Head-to-head comparison of two players in games both played",
	Long: `Compare two players game by game over the games in which both appeared.
Players are given by id or name.

Example:
  hoopstats duel PTS "Kobe Bryant" "LeBron James" --type all`,
	Args: cobra.ExactArgs(3),
	RunE: runDuel,
}

func init() {
	duelFlags.register(duelCmd)
}

func runDuel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ids := make([]string, 0, 2)
	for _, q := range args[1:] {
		id, err := resolveID(ctx, db, q)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	params := duelFlags.params(cmd, args[0])
	params.EntityIDs = ids
	res, err := newEngine(db, nil).Run(ctx, model.Request{Function: model.FuncDuel, Params: params})
	if err != nil {
		return fmt.Errorf("duel: %w", err)
	}
	return printResult(res)
}

// resolveID maps a CLI player argument to an id. Unknown names pass through
// as ids so the engine reports them.
func resolveID(ctx context.Context, db *storage.DB, q string) (string, error) {
	p, err := db.ResolvePlayer(ctx, q)
	if err != nil {
		return "", fmt.Errorf("resolve player: %w", err)
	}
	if p == nil {
		return q, nil
	}
	return p.ID, nil
}
