package engine

import (
	"context"
	"strings"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

// reachCount returns how many leading values it takes for the running sum
// to reach threshold. ok is false when the whole sequence falls short.
func reachCount(values []float64, threshold float64) (n int, ok bool) {
	var sum float64
	for i, v := range values {
		sum += v
		if sum >= threshold {
			return i + 1, true
		}
	}
	return 0, false
}

func (e *Engine) reach(ctx context.Context, q *query) (*model.Result, error) {
	events, err := e.events(ctx, q.filter)
	if err != nil {
		return nil, err
	}
	threshold := *q.p.Threshold

	var cands []candidate
	storage.ForEachPlayer(events, func(seq []model.Event) {
		values := make([]float64, len(seq))
		for i := range seq {
			values[i] = q.expr.Eval(&seq[i])
		}
		n, ok := reachCount(values, threshold)
		if !ok {
			return
		}
		first, hit := seq[0], seq[n-1]
		cands = append(cands, candidate{
			row: model.Row{
				PlayerID: first.PlayerID,
				Name:     first.Name,
				Value:    float64(n),
				Games:    n,
				From:     first.Date,
				To:       hit.Date,
			},
			key: hit.Date,
		})
	})

	rows := rank(cands, q.p.TopN, func(a, b *candidate) int {
		if c := cmpFloat(a.row.Value, b.row.Value); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})
	return &model.Result{Rows: rows}, nil
}
