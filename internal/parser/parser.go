// Package parser reads box-score CSV exports (players, games, boxscore) into
// store records. Files ending in .gz are decompressed transparently.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

// Open opens path for reading, gunzipping when it ends in .gz.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}

// table is a header-indexed CSV reader.
type table struct {
	r    *csv.Reader
	cols map[string]int
	line int
}

func newTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cols[strings.ToLower(h)] = i
	}
	return &table{r: cr, cols: cols, line: 1}, nil
}

func (t *table) next() ([]string, error) {
	t.line++
	return t.r.Read()
}

// index returns the first present column among names.
func (t *table) index(names ...string) int {
	for _, n := range names {
		if i, ok := t.cols[strings.ToLower(n)]; ok {
			return i
		}
	}
	return -1
}

func (t *table) require(names ...string) (int, error) {
	i := t.index(names...)
	if i < 0 {
		return -1, fmt.Errorf("missing column %q", names[0])
	}
	return i, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// ParsePlayers reads player profiles. Without a player_id column the name is
// the id, matching boxscore files keyed by playerName.
func ParsePlayers(r io.Reader) ([]model.Player, error) {
	t, err := newTable(r)
	if err != nil {
		return nil, err
	}
	nameCol, err := t.require("name", "playerName")
	if err != nil {
		return nil, err
	}
	idCol := t.index("player_id", "id")
	birthCol := t.index("birth_date", "birthDate")

	var out []model.Player
	for {
		rec, err := t.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("players line %d: %w", t.line, err)
		}
		p := model.Player{Name: cell(rec, nameCol), ID: cell(rec, idCol)}
		if p.Name == "" {
			continue
		}
		if p.ID == "" {
			p.ID = p.Name
		}
		if b := cell(rec, birthCol); len(b) >= 10 {
			p.BirthDate = b[:10]
		}
		out = append(out, p)
	}
}

// ParseGames reads game metadata. The type comes from a game_type column
// when present, otherwise from the isPlayin/isFinal/isRegular flags; a game
// that is none of those is a playoff game.
func ParseGames(r io.Reader) ([]model.Game, error) {
	t, err := newTable(r)
	if err != nil {
		return nil, err
	}
	idCol, err := t.require("game_id")
	if err != nil {
		return nil, err
	}
	dateCol, err := t.require("datetime", "game_date", "date")
	if err != nil {
		return nil, err
	}
	var (
		seasonCol  = t.index("seasonStartYear", "season_start_year")
		leagueCol  = t.index("League")
		typeCol    = t.index("game_type")
		regularCol = t.index("isRegular")
		finalCol   = t.index("isFinal")
		playinCol  = t.index("isPlayin")
		homeCol    = t.index("homeTeam", "home_team")
		awayCol    = t.index("awayTeam", "away_team")
		homePtsCol = t.index("pointsHome", "home_points")
		awayPtsCol = t.index("pointsAway", "away_points")
		winnerCol  = t.index("Winner")
	)

	var out []model.Game
	for {
		rec, err := t.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("games line %d: %w", t.line, err)
		}
		g := model.Game{
			ID:       cell(rec, idCol),
			League:   strings.ToUpper(cell(rec, leagueCol)),
			HomeTeam: cell(rec, homeCol),
			AwayTeam: cell(rec, awayCol),
			Winner:   cell(rec, winnerCol),
		}
		if g.ID == "" {
			continue
		}
		date := cell(rec, dateCol)
		if len(date) < 10 {
			return nil, fmt.Errorf("games line %d: bad date %q", t.line, date)
		}
		g.Date = date[:10]
		g.SeasonStartYear = atoi(cell(rec, seasonCol))
		g.HomePoints = atoi(cell(rec, homePtsCol))
		g.AwayPoints = atoi(cell(rec, awayPtsCol))

		switch {
		case cell(rec, typeCol) != "":
			g.Type = model.GameType(strings.ToLower(cell(rec, typeCol)))
		case flag(cell(rec, playinCol)):
			g.Type = model.GamePlayIn
		case flag(cell(rec, finalCol)):
			g.Type = model.GameFinal
		case regularCol < 0 || flag(cell(rec, regularCol)):
			g.Type = model.GameRegular
		default:
			g.Type = model.GamePlayoff
		}
		out = append(out, g)
	}
}

// statHeaders maps each stat to the header names it is exported under.
var statHeaders = [model.NumStats][]string{
	model.StatPTS:       {"PTS"},
	model.StatTRB:       {"TRB"},
	model.StatORB:       {"ORB"},
	model.StatDRB:       {"DRB"},
	model.StatAST:       {"AST"},
	model.StatSTL:       {"STL"},
	model.StatBLK:       {"BLK"},
	model.StatTOV:       {"TOV"},
	model.StatPF:        {"PF"},
	model.StatFG:        {"FG"},
	model.StatFGA:       {"FGA"},
	model.Stat3P:        {"3P", "fg3"},
	model.Stat3PA:       {"3PA", "fg3a"},
	model.StatFT:        {"FT"},
	model.StatFTA:       {"FTA"},
	model.StatMP:        {"MP"},
	model.StatPlusMinus: {"+/-", "plus_minus"},
	model.StatGmSc:      {"GmSc"},
}

// ParseBoxscore reads one stat line per player per game. A line with no
// minutes and no non-zero stat is a did-not-play row and is stored with
// every stat unrecorded. Empty cells on a played line stay unrecorded,
// except points, which read as 0.
func ParseBoxscore(r io.Reader) ([]storage.StatLine, error) {
	t, err := newTable(r)
	if err != nil {
		return nil, err
	}
	gameCol, err := t.require("game_id")
	if err != nil {
		return nil, err
	}
	playerCol, err := t.require("player_id", "playerName")
	if err != nil {
		return nil, err
	}
	teamCol := t.index("teamName", "team")
	starterCol := t.index("isStarter", "is_starter")
	var statCols [model.NumStats]int
	for i, names := range statHeaders {
		statCols[i] = t.index(names...)
	}

	var out []storage.StatLine
	for {
		rec, err := t.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("boxscore line %d: %w", t.line, err)
		}
		l := storage.StatLine{Event: model.Event{
			GameID:   cell(rec, gameCol),
			PlayerID: cell(rec, playerCol),
			Team:     cell(rec, teamCol),
			Starter:  flag(cell(rec, starterCol)),
		}}
		if l.GameID == "" || l.PlayerID == "" {
			continue
		}

		played := false
		for i, col := range statCols {
			raw := cell(rec, col)
			if raw == "" {
				continue
			}
			var v float64
			if model.Stat(i) == model.StatMP {
				v, err = ParseMinutes(raw)
			} else {
				v, err = strconv.ParseFloat(raw, 64)
			}
			if err != nil {
				return nil, fmt.Errorf("boxscore line %d: %s: %w", t.line, model.Stat(i), err)
			}
			l.Stats[i] = v
			l.Recorded[i] = true
			if v != 0 {
				played = true
			}
		}
		if !played {
			l.Recorded = [model.NumStats]bool{}
			l.Stats = [model.NumStats]float64{}
		} else {
			l.Recorded[model.StatPTS] = true
		}
		out = append(out, l)
	}
}

// ParseMinutes converts "MM:SS" or plain decimal minutes to minutes.
func ParseMinutes(s string) (float64, error) {
	s = strings.TrimSpace(s)
	mm, ss, ok := strings.Cut(s, ":")
	if !ok {
		return strconv.ParseFloat(s, 64)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("minutes %q: %w", s, err)
	}
	sec, err := strconv.Atoi(ss)
	if err != nil || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("minutes %q: bad seconds", s)
	}
	return float64(m) + float64(sec)/60, nil
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, _ := strconv.ParseFloat(s, 64)
	return int(f)
}

// flag reads 1/0 and true/false cells.
func flag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "1.0", "true", "t", "yes":
		return true
	}
	return false
}
