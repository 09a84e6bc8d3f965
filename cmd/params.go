package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/report"
)

// paramFlags binds the request parameters shared by the engine commands.
// Optional numeric parameters are only set when their flag was given.
type paramFlags struct {
	minAge   int
	maxAge   int
	gameType string
	topN     int
	minGames int
	agg      string
	starter  bool
	team     string
	season   int
	league   string
}

func (p *paramFlags) register(c *cobra.Command) {
	fs := c.Flags()
	fs.IntVar(&p.minAge, "min-age", 0, "only games played at this age or older")
	fs.IntVar(&p.maxAge, "max-age", 0, "only games played at this age or younger")
	fs.StringVar(&p.gameType, "type", "", "game type: regular, playoff, final, all")
	fs.IntVar(&p.topN, "top", 0, "number of rows to return")
	fs.BoolVar(&p.starter, "starter", false, "only starts (--starter=false for bench games only)")
	fs.StringVar(&p.team, "team", "", "only games for teams matching this name")
	fs.IntVar(&p.season, "season", 0, "season start year, e.g. 2023 for 2023-24")
	fs.StringVar(&p.league, "league", "", `league filter ("all" for every league)`)
}

// registerRanking adds the flags only the ranking engine reads.
func (p *paramFlags) registerRanking(c *cobra.Command) {
	fs := c.Flags()
	fs.IntVar(&p.minGames, "min-games", 0, "minimum games played to qualify")
	fs.StringVar(&p.agg, "agg", "", "aggregation: sum or avg")
}

func (p *paramFlags) params(c *cobra.Command, label string) model.Params {
	fs := c.Flags()
	out := model.Params{
		Label:       label,
		GameType:    model.GameType(p.gameType),
		TopN:        p.topN,
		MinGames:    p.minGames,
		Aggregation: model.Aggregation(p.agg),
		Team:        p.team,
		League:      p.league,
	}
	if fs.Changed("min-age") {
		out.MinAge = intPtr(p.minAge)
	}
	if fs.Changed("max-age") {
		out.MaxAge = intPtr(p.maxAge)
	}
	if fs.Changed("starter") {
		s := p.starter
		out.Starter = &s
	}
	if fs.Changed("season") {
		out.Season = intPtr(p.season)
	}
	return out
}

func intPtr(v int) *int { return &v }

// runRequest executes req and prints the result as a table or JSON.
func runRequest(ctx context.Context, req model.Request) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := newEngine(db, nil).Run(ctx, req)
	if err != nil {
		return err
	}
	return printResult(res)
}

func printResult(res *model.Result) error {
	if jsonOut {
		return printJSON(res)
	}
	report.PrintResult(os.Stdout, res)
	return nil
}

// engineCommand builds a "<use> <label>" command for fn. extra registers
// function-specific flags and fills their params.
func engineCommand(use, short, long string, fn model.Function, p *paramFlags, extra func(*model.Params)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := p.params(cmd, args[0])
			if extra != nil {
				extra(&params)
			}
			if err := runRequest(cmd.Context(), model.Request{Function: fn, Params: params}); err != nil {
				return fmt.Errorf("%s: %w", fn, err)
			}
			return nil
		},
	}
}
