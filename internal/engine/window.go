package engine

import (
	"context"
	"strings"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

// maxWindow returns the largest sum over n consecutive values and the index
// where that window starts, sliding one value in and one out per step. The
// earliest of several equal windows wins. ok is false when len(values) < n.
func maxWindow(values []float64, n int) (best float64, start int, ok bool) {
	if n <= 0 || len(values) < n {
		return 0, 0, false
	}
	var sum float64
	for _, v := range values[:n] {
		sum += v
	}
	best = sum
	for i := n; i < len(values); i++ {
		sum += values[i] - values[i-n]
		if sum > best {
			best = sum
			start = i - n + 1
		}
	}
	return best, start, true
}

func (e *Engine) window(ctx context.Context, q *query) (*model.Result, error) {
	events, err := e.events(ctx, q.filter)
	if err != nil {
		return nil, err
	}
	n := *q.p.NGames

	var cands []candidate
	storage.ForEachPlayer(events, func(seq []model.Event) {
		values := make([]float64, len(seq))
		for i := range seq {
			values[i] = q.expr.Eval(&seq[i])
		}
		sum, start, ok := maxWindow(values, n)
		if !ok {
			return
		}
		first, last := seq[start], seq[start+n-1]
		cands = append(cands, candidate{
			row: model.Row{
				PlayerID: first.PlayerID,
				Name:     first.Name,
				Value:    sum,
				Games:    n,
				From:     first.Date,
				To:       last.Date,
			},
			key: first.Date,
		})
	})

	rows := rank(cands, q.p.TopN, func(a, b *candidate) int {
		if c := cmpFloat(b.row.Value, a.row.Value); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})
	return &model.Result{Rows: rows}, nil
}
