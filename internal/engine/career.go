package engine

import (
	"context"
	"strings"

	"github.com/pable/hoopstats/internal/model"
)

// careerHigh lists one player's best single games by the label. Equal
// values keep the earlier game first.
func (e *Engine) careerHigh(ctx context.Context, q *query) (*model.Result, error) {
	events, err := e.side(ctx, q, q.p.EntityIDs[0])
	if err != nil {
		return nil, err
	}

	cands := make([]candidate, 0, len(events))
	for i := range events {
		ev := &events[i]
		cands = append(cands, candidate{
			row: model.Row{
				PlayerID: ev.PlayerID,
				Name:     ev.Name,
				Value:    q.expr.Eval(ev),
				Games:    1,
				From:     ev.Date,
				To:       ev.Date,
				Opponent: opponent(ev),
			},
			key: ev.Date + "/" + ev.GameID,
		})
	}

	rows := rank(cands, q.p.TopN, func(a, b *candidate) int {
		if c := cmpFloat(b.row.Value, a.row.Value); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})
	return &model.Result{Rows: rows}, nil
}

// opponent renders "vs BOS" for home games and "@ BOS" for road games.
func opponent(ev *model.Event) string {
	if ev.Opponent == "" {
		return ""
	}
	if ev.Home {
		return "vs " + ev.Opponent
	}
	return "@ " + ev.Opponent
}
