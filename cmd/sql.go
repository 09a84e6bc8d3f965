package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the box-score database",
	Long: `Run an arbitrary SQL query against the box-score database and print results as a table.

Schema overview:
  players(player_id, name, birth_date)
  games(game_id, game_date, season_start_year, league, game_type,
    home_team, away_team, home_points, away_points, winner)
  boxscore(game_id, player_id, team, is_starter, mp, fg, fga, fg3, fg3a,
    ft, fta, orb, drb, trb, ast, stl, blk, tov, pf, pts, plus_minus, gmsc)

Note: a boxscore row with pts NULL is a game the player did not play.
game_type is one of regular, playin, playoff, final.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(cmd.Context(), query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRaw(os.Stdout, cols, rows)
	return nil
}
