package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/hoopstats/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// valueHeader names the headline column for each engine.
func valueHeader(fn model.Function) string {
	switch fn {
	case model.FuncAchievementCount:
		return "COUNT"
	case model.FuncStreak:
		return "STREAK"
	case model.FuncThresholdReach:
		return "GAMES TO REACH"
	case model.FuncRollingWindow:
		return "WINDOW SUM"
	case model.FuncSeasonCount:
		return "SEASONS"
	case model.FuncStarterSplit:
		return "AVG"
	default:
		return "VALUE"
	}
}

// formatValue drops the fraction for whole numbers.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintResult writes res as a table: ranked rows, or the duel breakdown.
func PrintResult(w io.Writer, res *model.Result) {
	fmt.Fprintf(w, "\n%s  |  %s\n\n", res.Function, res.Label)
	if res.Status == model.StatusNoData {
		fmt.Fprintln(w, "(no data)")
		return
	}
	if res.Duel != nil {
		PrintDuel(w, res.Duel)
		return
	}
	PrintRows(w, res.Function, res.Rows)
}

// PrintRows writes ranked rows. FROM/TO are shown only for engines that
// report a span; single-player engines get their own layouts.
func PrintRows(w io.Writer, fn model.Function, rows []model.Row) {
	switch fn {
	case model.FuncCareerHigh:
		printCareerHigh(w, rows)
		return
	case model.FuncStarterSplit:
		printSplit(w, rows)
		return
	}
	spans := fn == model.FuncStreak || fn == model.FuncThresholdReach ||
		fn == model.FuncRollingWindow || fn == model.FuncSeasonCount

	table := newTable(w)
	if spans {
		table.Header("#", "PLAYER", "ID", valueHeader(fn), "GAMES", "FROM", "TO")
	} else {
		table.Header("#", "PLAYER", "ID", valueHeader(fn), "GAMES")
	}
	for _, r := range rows {
		cells := []any{
			strconv.Itoa(r.Rank),
			r.Name,
			r.PlayerID,
			formatValue(r.Value),
			strconv.Itoa(r.Games),
		}
		if spans {
			cells = append(cells, orDash(r.From), orDash(r.To))
		}
		table.Append(cells...)
	}
	table.Render()
}

func printCareerHigh(w io.Writer, rows []model.Row) {
	if len(rows) > 0 {
		fmt.Fprintf(w, "%s (%s)\n", rows[0].Name, rows[0].PlayerID)
	}
	table := newTable(w)
	table.Header("#", "DATE", "OPPONENT", "VALUE")
	for _, r := range rows {
		table.Append(strconv.Itoa(r.Rank), r.From, orDash(r.Opponent), formatValue(r.Value))
	}
	table.Render()
}

func printSplit(w io.Writer, rows []model.Row) {
	if len(rows) > 0 {
		fmt.Fprintf(w, "%s (%s)\n", rows[0].Name, rows[0].PlayerID)
	}
	table := newTable(w)
	table.Header("ROLE", "GAMES", "AVG")
	for _, r := range rows {
		table.Append(r.Role, strconv.Itoa(r.Games), strconv.FormatFloat(r.Value, 'f', 1, 64))
	}
	table.Render()
}

// PrintDuel writes one row per shared game followed by the tally.
func PrintDuel(w io.Writer, d *model.Duel) {
	table := newTable(w)
	table.Header("DATE", "GAME", d.PlayerA.Name, d.PlayerB.Name, "TEAMS", "EDGE")
	for _, g := range d.Games {
		edge := "="
		switch g.Winner {
		case model.SideA:
			edge = d.PlayerA.Name
		case model.SideB:
			edge = d.PlayerB.Name
		}
		table.Append(
			g.Date,
			g.GameID,
			formatValue(g.ValueA),
			formatValue(g.ValueB),
			g.TeamA+" / "+g.TeamB,
			edge,
		)
	}
	table.Render()

	fmt.Fprintf(w, "\n  %-24s wins %3d  total %s\n", d.PlayerA.Name, d.AWins, formatValue(d.TotalA))
	fmt.Fprintf(w, "  %-24s wins %3d  total %s\n", d.PlayerB.Name, d.BWins, formatValue(d.TotalB))
	fmt.Fprintf(w, "  %-24s      %3d\n", "ties", d.Ties)
}

// PrintPlayers writes a player lookup table.
func PrintPlayers(w io.Writer, players []model.Player) {
	table := newTable(w)
	table.Header("ID", "NAME", "BORN")
	for _, p := range players {
		table.Append(p.ID, p.Name, orDash(p.BirthDate))
	}
	table.Render()
}

// PrintRaw writes an untyped result set, as returned by ad-hoc SQL.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)
	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}
