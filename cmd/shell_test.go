package cmd

import (
	"testing"

	"github.com/pable/hoopstats/internal/model"
)

func TestParseShellRequest(t *testing.T) {
	req, err := parseShellRequest("rank", "PTS max_age=25 game_type=playoff top_n=5 is_starter=true aggfunc=avg")
	if err != nil {
		t.Fatalf("parseShellRequest: %v", err)
	}
	p := req.Params
	if req.Function != model.FuncRankingByAge || p.Label != "PTS" {
		t.Errorf("unexpected request %+v", req)
	}
	if p.MaxAge == nil || *p.MaxAge != 25 || p.TopN != 5 {
		t.Errorf("numeric params not set: %+v", p)
	}
	if p.GameType != model.GamePlayoff || p.Aggregation != model.AggAvg {
		t.Errorf("string params not set: %+v", p)
	}
	if p.Starter == nil || !*p.Starter {
		t.Errorf("is_starter not set: %+v", p)
	}
}

func TestParseShellRequestDuelAndAliases(t *testing.T) {
	req, err := parseShellRequest("get_duel_ranking", "PTS entity_ids=a01,b01")
	if err != nil {
		t.Fatalf("parseShellRequest: %v", err)
	}
	if req.Function != model.FuncDuel || len(req.Params.EntityIDs) != 2 || req.Params.EntityIDs[1] != "b01" {
		t.Errorf("unexpected duel request %+v", req)
	}

	req, err = parseShellRequest("reach", "PTS threshold=10000")
	if err != nil {
		t.Fatalf("parseShellRequest: %v", err)
	}
	if req.Params.Threshold == nil || *req.Params.Threshold != 10000 {
		t.Errorf("threshold not set: %+v", req.Params)
	}
}

func TestParseShellRequestErrors(t *testing.T) {
	cases := [][2]string{
		{"fly", "PTS"},
		{"streak", ""},
		{"streak", "PTS top_n"},
		{"streak", "PTS bogus=1"},
		{"window", "PTS n_games=abc"},
	}
	for _, c := range cases {
		if _, err := parseShellRequest(c[0], c[1]); err == nil {
			t.Errorf("parseShellRequest(%q, %q): expected error", c[0], c[1])
		}
	}
}

func TestShellValuesKeepStringKeysAsStrings(t *testing.T) {
	req, err := parseShellRequest("streak", "Win team=76 league=1 season=2019 top_n=3")
	if err != nil {
		t.Fatalf("parseShellRequest: %v", err)
	}
	p := req.Params
	if p.Team != "76" || p.League != "1" {
		t.Errorf("string params coerced: team %q league %q", p.Team, p.League)
	}
	if p.Season == nil || *p.Season != 2019 || p.TopN != 3 {
		t.Errorf("numeric params not set: %+v", p)
	}
}

func TestParseShellRequestSinglePlayer(t *testing.T) {
	req, err := parseShellRequest("career", "PTS entity_ids=bryanko01 top_n=5")
	if err != nil {
		t.Fatalf("parseShellRequest: %v", err)
	}
	if req.Function != model.FuncCareerHigh || len(req.Params.EntityIDs) != 1 || req.Params.EntityIDs[0] != "bryanko01" {
		t.Errorf("unexpected career request %+v", req)
	}

	req, err = parseShellRequest("seasons", "PTS threshold=2000")
	if err != nil {
		t.Fatalf("parseShellRequest: %v", err)
	}
	if req.Function != model.FuncSeasonCount || req.Params.Threshold == nil || *req.Params.Threshold != 2000 {
		t.Errorf("unexpected seasons request %+v", req)
	}
}
