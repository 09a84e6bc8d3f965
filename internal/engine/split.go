package engine

import (
	"context"

	"github.com/pable/hoopstats/internal/model"
)

// Starter-split roles, in output order.
const (
	RoleStarter = "starter"
	RoleBench   = "bench"
)

// starterSplit averages one player's label over their starts and over their
// bench games. A role with no games is left out.
func (e *Engine) starterSplit(ctx context.Context, q *query) (*model.Result, error) {
	events, err := e.side(ctx, q, q.p.EntityIDs[0])
	if err != nil {
		return nil, err
	}

	var sum [2]float64
	var games [2]int
	for i := range events {
		r := 1
		if events[i].Starter {
			r = 0
		}
		sum[r] += q.expr.Eval(&events[i])
		games[r]++
	}

	rows := make([]model.Row, 0, 2)
	for r, role := range []string{RoleStarter, RoleBench} {
		if games[r] == 0 {
			continue
		}
		rows = append(rows, model.Row{
			Rank:     len(rows) + 1,
			PlayerID: events[0].PlayerID,
			Name:     events[0].Name,
			Value:    sum[r] / float64(games[r]),
			Games:    games[r],
			Role:     role,
		})
	}
	return &model.Result{Rows: rows}, nil
}
