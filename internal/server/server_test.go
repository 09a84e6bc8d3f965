package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pable/hoopstats/internal/engine"
	"github.com/pable/hoopstats/internal/interpret"
	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/server"
	"github.com/pable/hoopstats/internal/storage"
)

func seededStore(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	if err := db.InsertPlayers(ctx, []model.Player{{ID: "p1", Name: "One"}, {ID: "p2", Name: "Two"}}); err != nil {
		t.Fatalf("players: %v", err)
	}
	if err := db.InsertGames(ctx, []model.Game{
		{ID: "g1", Date: "2021-01-01", HomeTeam: "AAA", AwayTeam: "BBB", Winner: "AAA"},
		{ID: "g2", Date: "2021-01-02", HomeTeam: "AAA", AwayTeam: "BBB", Winner: "BBB"},
	}); err != nil {
		t.Fatalf("games: %v", err)
	}
	var lines []storage.StatLine
	for _, l := range []struct {
		player, game, team string
		pts                float64
	}{
		{"p1", "g1", "AAA", 30}, {"p1", "g2", "AAA", 12},
		{"p2", "g1", "BBB", 18}, {"p2", "g2", "BBB", 25},
	} {
		ev := model.Event{PlayerID: l.player, GameID: l.game, Team: l.team}
		ev.Stats[model.StatPTS] = l.pts
		lines = append(lines, storage.Line(ev))
	}
	if err := db.InsertEvents(ctx, lines); err != nil {
		t.Fatalf("events: %v", err)
	}
	return db
}

type failingRunner struct{}

func (failingRunner) Run(context.Context, model.Request) (*model.Result, error) {
	return nil, &engine.Error{Kind: engine.KindStoreUnavailable, Message: "read events: disk gone"}
}

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("disk gone") }

type cannedLLM string

func (c cannedLLM) Complete(context.Context, string, string) (string, error) { return string(c), nil }

func do(h http.Handler, method, path, body string) (*http.Response, []byte) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	res := rec.Result()
	b, _ := io.ReadAll(res.Body)
	return res, b
}

func TestQueryEndpoint(t *testing.T) {
	Convey("Given a server over a seeded store", t, func() {
		db := seededStore(t)
		h := server.New(engine.New(db), db, nil, nil, nil).Handler()

		Convey("When a valid request is posted", func() {
			res, body := do(h, "POST", "/v1/query", `{"function":"ranking-by-age","params":{"label":"PTS"}}`)

			Convey("Then the ranked rows are returned", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				So(res.Header.Get("X-Request-ID"), ShouldNotBeEmpty)
				var out model.Result
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(out.Status, ShouldEqual, model.StatusOK)
				So(out.Rows, ShouldHaveLength, 2)
				So(out.Rows[0].PlayerID, ShouldEqual, "p2")
				So(out.Rows[0].Value, ShouldEqual, 43.0)
			})
		})

		Convey("When nothing qualifies", func() {
			res, body := do(h, "POST", "/v1/query", `{"function":"threshold-reach","params":{"label":"PTS","threshold":1000}}`)

			Convey("Then it is a 200 with no_data status", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				So(string(body), ShouldContainSubstring, `"status":"no_data"`)
			})
		})

		Convey("When the label does not resolve", func() {
			res, body := do(h, "POST", "/v1/query", `{"function":"streak","params":{"label":"XYZ"}}`)

			Convey("Then it is a 400 naming the label", func() {
				So(res.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(string(body), ShouldContainSubstring, `"code":"UNSUPPORTED_LABEL"`)
				So(string(body), ShouldContainSubstring, `"field":"label"`)
			})
		})

		Convey("When the body has unknown fields", func() {
			res, _ := do(h, "POST", "/v1/query", `{"function":"streak","bogus":1}`)

			Convey("Then it is rejected", func() {
				So(res.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the store is healthy", func() {
			res, _ := do(h, "GET", "/healthz", "")

			Convey("Then healthz reports ok", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When metrics are scraped after a query", func() {
			do(h, "POST", "/v1/query", `{"function":"streak","params":{"label":"Win"}}`)
			res, body := do(h, "GET", "/metrics", "")

			Convey("Then the request counter is exposed", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				So(string(body), ShouldContainSubstring, "hoopstats_http_requests_total")
			})
		})

		Convey("When ask is used without a model", func() {
			res, _ := do(h, "POST", "/v1/ask", `{"question":"who scored most?"}`)

			Convey("Then it is not implemented", func() {
				So(res.StatusCode, ShouldEqual, http.StatusNotImplemented)
			})
		})
	})
}

func TestAskEndpoint(t *testing.T) {
	Convey("Given a server with a canned model", t, func() {
		db := seededStore(t)
		llm := cannedLLM(`{"function":"get_consecutive_games","params":{"label":"Win"},"description":"win streaks"}`)
		h := server.New(engine.New(db), db, interpret.New(llm, db), nil, nil).Handler()

		Convey("When a question is asked", func() {
			res, body := do(h, "POST", "/v1/ask", `{"question":"longest winning streak"}`)

			Convey("Then the translated request and its result are returned", func() {
				So(res.StatusCode, ShouldEqual, http.StatusOK)
				So(string(body), ShouldContainSubstring, `"function":"streak"`)
				So(string(body), ShouldContainSubstring, `"description":"win streaks"`)
			})
		})
	})
}

func TestStoreFailures(t *testing.T) {
	Convey("Given a server whose store is down", t, func() {
		h := server.New(failingRunner{}, downStore{}, nil, nil, nil).Handler()

		Convey("When a query fails in the store", func() {
			res, body := do(h, "POST", "/v1/query", `{"function":"streak","params":{"label":"PTS"}}`)

			Convey("Then it is a retryable 503", func() {
				So(res.StatusCode, ShouldEqual, http.StatusServiceUnavailable)
				So(string(body), ShouldContainSubstring, `"retryable":true`)
			})
		})

		Convey("When health is checked", func() {
			res, _ := do(h, "GET", "/healthz", "")

			Convey("Then it reports unavailable", func() {
				So(res.StatusCode, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}
