package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/engine"
	"github.com/pable/hoopstats/internal/interpret"
	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/report"
	"github.com/pable/hoopstats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellFunctions maps short REPL verbs to engine functions.
var shellFunctions = map[string]model.Function{
	"rank":    model.FuncRankingByAge,
	"achieve": model.FuncAchievementCount,
	"streak":  model.FuncStreak,
	"reach":   model.FuncThresholdReach,
	"window":  model.FuncRollingWindow,
	"duel":    model.FuncDuel,
	"seasons": model.FuncSeasonCount,
	"career":  model.FuncCareerHigh,
	"split":   model.FuncStarterSplit,
}

// numericShellKeys are the parameters decoded as JSON numbers; every other
// value stays a string, so team=76 is a team name.
var numericShellKeys = map[string]bool{
	"min_age":   true,
	"max_age":   true,
	"top_n":     true,
	"threshold": true,
	"n_games":   true,
	"min_games": true,
	"season":    true,
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	eng := newEngine(db, nil)

	// ask is optional: without a key the other commands still work.
	tr, trErr := newTranslator(db)

	cGreeting.Println("hoopstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("hoopstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch verb {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "players":
			shellPlayers(ctx, db, rest)
		case "query":
			req, err := decodeRequest(strings.NewReader(rest))
			if err != nil {
				shellError(err)
				continue
			}
			shellRun(ctx, eng, req)
		case "ask":
			if trErr != nil {
				shellError(trErr)
				continue
			}
			shellAsk(ctx, eng, tr, rest)
		default:
			req, err := parseShellRequest(verb, rest)
			if err != nil {
				cWarn.Fprintf(os.Stderr, "%v (type 'help')\n", err)
				continue
			}
			shellRun(ctx, eng, req)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"rank <label> [key=value...]", "career totals, e.g. rank PTS max_age=25"},
		{"achieve <label> [key=value...]", "games a condition held, e.g. achieve TD"},
		{"streak <label> [key=value...]", "longest run, e.g. streak Win game_type=all"},
		{"reach <label> threshold=<n>", "fewest games to reach a total"},
		{"window <label> n_games=<n>", "best n-game span"},
		{"duel <label> entity_ids=<a>,<b>", "head-to-head in shared games"},
		{"seasons <label> threshold=<n>", "seasons reaching a total, e.g. seasons PTS threshold=2000"},
		{"career <label> entity_ids=<id>", "one player's best games"},
		{"split <label> entity_ids=<id>", "one player's starter and bench averages"},
		{"query <json>", "run a raw JSON request"},
		{"ask <question>", "translate a question with the language model"},
		{"players <name>", "look up player ids"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-36s", r.cmd)
		fmt.Println(r.desc)
	}
	cMuted.Println("\n  keys: min_age max_age game_type top_n threshold n_games min_games aggfunc is_starter team season league entity_ids")
	cMuted.Println("  labels: PTS, DD, Win, 40PTS+, 30PTS+&FTA=0, MP<20")
	fmt.Println()
}

// parseShellRequest turns "streak 20PTS+ game_type=all top_n=5" into a
// request. Values are typed the way the JSON API expects them.
func parseShellRequest(verb, rest string) (model.Request, error) {
	fn, ok := shellFunctions[verb]
	if !ok {
		if fn, ok = model.ParseFunction(verb); !ok {
			return model.Request{}, fmt.Errorf("unknown command %q", verb)
		}
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return model.Request{}, fmt.Errorf("usage: %s <label> [key=value...]", verb)
	}

	raw := map[string]any{"label": fields[0]}
	for _, kv := range fields[1:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return model.Request{}, fmt.Errorf("expected key=value, got %q", kv)
		}
		raw[k] = shellValue(k, v)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return model.Request{}, err
	}
	var params model.Params
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		return model.Request{}, fmt.Errorf("bad parameters: %w", err)
	}
	return model.Request{Function: fn, Params: params}, nil
}

func shellValue(key, v string) any {
	switch {
	case key == "entity_ids":
		return strings.Split(v, ",")
	case key == "is_starter":
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	case numericShellKeys[key]:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return v
}

func shellRun(ctx context.Context, eng *engine.Engine, req model.Request) {
	res, err := eng.Run(ctx, req)
	if err != nil {
		shellError(err)
		return
	}
	report.PrintResult(os.Stdout, res)
	fmt.Println()
}

func shellAsk(ctx context.Context, eng *engine.Engine, tr *interpret.Translator, question string) {
	out, err := tr.Translate(ctx, question)
	if err != nil {
		shellError(err)
		return
	}
	cMuted.Println(describe(out))
	shellRun(ctx, eng, out.Request)
}

func shellPlayers(ctx context.Context, db *storage.DB, q string) {
	if q == "" {
		cError.Fprintln(os.Stderr, "usage: players <name>")
		return
	}
	found, err := db.FindPlayers(ctx, q)
	if err != nil {
		shellError(err)
		return
	}
	if len(found) == 0 {
		cMuted.Println("No players match.")
		return
	}
	report.PrintPlayers(os.Stdout, found)
}

func shellError(err error) {
	var e *engine.Error
	if errors.As(err, &e) && e.Field != "" {
		cError.Fprintf(os.Stderr, "%s (%s): %s\n", e.Kind, e.Field, e.Message)
		return
	}
	cError.Fprintf(os.Stderr, "error: %v\n", err)
}
