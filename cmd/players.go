package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/report"
)

var playersCmd = &cobra.Command{
	Use:   "players <name>",
	Short: "Look up player ids by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayers,
}

func runPlayers(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	found, err := db.FindPlayers(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("find players: %w", err)
	}
	if jsonOut {
		return printJSON(found)
	}
	if len(found) == 0 {
		fmt.Fprintln(os.Stdout, "No players match.")
		return nil
	}
	report.PrintPlayers(os.Stdout, found)
	return nil
}
