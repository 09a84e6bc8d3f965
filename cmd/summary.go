package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/model"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate counts about the stored data: players, games, played
stat lines, date range, and games per type and league.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview(cmd.Context())
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if jsonOut {
		return printJSON(ov)
	}
	if ov.Games == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'hoopstats import --games <file>' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Players       : %d\n", ov.Players)
	fmt.Fprintf(os.Stdout, "  Games         : %d\n", ov.Games)
	fmt.Fprintf(os.Stdout, "  Played lines  : %d\n", ov.Events)
	fmt.Fprintf(os.Stdout, "  Date range    : %s to %s\n", ov.EarliestGame, ov.LatestGame)

	fmt.Fprintf(os.Stdout, "\n--- Game Types ---\n\n")
	tt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	tt.Header("TYPE", "GAMES")
	types := make([]string, 0, len(ov.GamesByType))
	for t := range ov.GamesByType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		tt.Append(t, fmt.Sprintf("%d", ov.GamesByType[model.GameType(t)]))
	}
	tt.Render()

	// League breakdown, only shown when more than one league is present.
	if len(ov.GamesByLeague) > 1 {
		fmt.Fprintf(os.Stdout, "\n--- Leagues ---\n\n")
		lt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		lt.Header("LEAGUE", "GAMES")
		leagues := make([]string, 0, len(ov.GamesByLeague))
		for l := range ov.GamesByLeague {
			leagues = append(leagues, l)
		}
		sort.Strings(leagues)
		for _, l := range leagues {
			lt.Append(l, fmt.Sprintf("%d", ov.GamesByLeague[l]))
		}
		lt.Render()
	}
	return nil
}
