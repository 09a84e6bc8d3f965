package interpret

import (
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pable/hoopstats/internal/model"
)

type fakeLLM struct {
	reply  string
	err    error
	system string
	user   string
}

func (f *fakeLLM) Complete(_ context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	return f.reply, f.err
}

type fakeFinder map[string][]model.Player

func (f fakeFinder) FindPlayers(_ context.Context, q string) ([]model.Player, error) {
	return f[q], nil
}

func TestTranslate(t *testing.T) {
	Convey("Given a translator backed by a canned model", t, func() {
		llm := &fakeLLM{}
		finder := fakeFinder{
			"LeBron James": {{ID: "jamesle01", Name: "LeBron James"}},
			"Kobe Bryant": {
				{ID: "bryanjo01", Name: "Joe Bryant"},
				{ID: "bryanko01", Name: "Kobe Bryant"},
			},
		}
		tr := New(llm, finder)
		ctx := context.Background()

		Convey("When the reply is fenced JSON with a legacy function name", func() {
			llm.reply = "```json\n" +
				`{"function": "get_ranking_by_age", "params": {"label": "PTS", "max_age": 25, "top_n": 30, "game_type": "Regular", "aggfunc": "mean"}, "description": "points by 25"}` +
				"\n```"
			out, err := tr.Translate(ctx, "most points by age 25")

			Convey("Then it is parsed and normalised", func() {
				So(err, ShouldBeNil)
				So(out.Request.Function, ShouldEqual, model.FuncRankingByAge)
				So(out.Request.Params.Label, ShouldEqual, "PTS")
				So(*out.Request.Params.MaxAge, ShouldEqual, 25)
				So(out.Request.Params.TopN, ShouldEqual, 30)
				So(out.Request.Params.GameType, ShouldEqual, model.GameRegular)
				So(out.Request.Params.Aggregation, ShouldEqual, model.AggAvg)
				So(out.Description, ShouldEqual, "points by 25")
			})

			Convey("Then the prompt carries the question and the label vocabulary", func() {
				So(llm.user, ShouldEqual, "most points by age 25")
				So(llm.system, ShouldContainSubstring, "threshold-reach")
				So(llm.system, ShouldContainSubstring, "5_3P+")
			})
		})

		Convey("When a duel names two players", func() {
			llm.reply = `Sure: {"function": "get_duel_ranking", "params": {"label": "PTS", "game_type": "all", "player1": "Kobe Bryant", "player2": "LeBron James"}, "description": "Kobe vs LeBron"}`
			out, err := tr.Translate(ctx, "Kobe vs LeBron")

			Convey("Then names resolve to ids, exact match first", func() {
				So(err, ShouldBeNil)
				So(out.Request.Function, ShouldEqual, model.FuncDuel)
				So(out.Request.Params.EntityIDs, ShouldResemble, []string{"bryanko01", "jamesle01"})
			})
		})

		Convey("When a career-high question names one player", func() {
			llm.reply = `{"function": "get_player_career_high", "params": {"label": "PTS", "player": "Kobe Bryant"}, "description": "Kobe's best scoring games"}`
			out, err := tr.Translate(ctx, "Kobe's highest scoring games")

			Convey("Then the single player resolves to one id", func() {
				So(err, ShouldBeNil)
				So(out.Request.Function, ShouldEqual, model.FuncCareerHigh)
				So(out.Request.Params.EntityIDs, ShouldResemble, []string{"bryanko01"})
			})
		})

		Convey("When a duel names an unknown player", func() {
			llm.reply = `{"function": "duel", "params": {"label": "PTS", "player1": "Nobody", "player2": "LeBron James"}}`
			_, err := tr.Translate(ctx, "Nobody vs LeBron")

			Convey("Then translation fails naming the player", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "Nobody")
			})
		})

		Convey("When the model declines", func() {
			llm.reply = `{"function": null, "params": {}, "description": "shot charts are not stored"}`
			_, err := tr.Translate(ctx, "where does Curry shoot from?")

			Convey("Then ErrUnanswerable carries the reason", func() {
				So(errors.Is(err, ErrUnanswerable), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "shot charts")
			})
		})

		Convey("When the reply is not JSON", func() {
			llm.reply = "I think LeBron."
			_, err := tr.Translate(ctx, "who is best?")

			Convey("Then a parse error is returned", func() {
				So(err, ShouldNotBeNil)
				So(strings.Contains(err.Error(), "parse"), ShouldBeTrue)
			})
		})

		Convey("When the model call fails", func() {
			llm.err = errors.New("overloaded")
			_, err := tr.Translate(ctx, "anything")

			Convey("Then the cause is wrapped", func() {
				So(errors.Is(err, llm.err), ShouldBeTrue)
			})
		})

		Convey("When the question is blank", func() {
			_, err := tr.Translate(ctx, "   ")

			Convey("Then the model is not called", func() {
				So(err, ShouldNotBeNil)
				So(llm.user, ShouldEqual, "")
			})
		})
	})
}
