package engine

import (
	"context"
	"strings"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/stat"
	"github.com/pable/hoopstats/internal/storage"
)

// longestRun walks holds once and returns the length of the longest run of
// true values and the index of its last element. The first of several
// equally long runs wins. end is -1 when nothing holds.
func longestRun(holds []bool) (length, end int) {
	end = -1
	cur := 0
	for i, h := range holds {
		if !h {
			cur = 0
			continue
		}
		cur++
		if cur > length {
			length = cur
			end = i
		}
	}
	return length, end
}

func (e *Engine) streaks(ctx context.Context, q *query) (*model.Result, error) {
	events, err := e.events(ctx, q.filter)
	if err != nil {
		return nil, err
	}

	var cands []candidate
	storage.ForEachPlayer(events, func(seq []model.Event) {
		holds := make([]bool, len(seq))
		for i := range seq {
			holds[i] = stat.Holds(q.expr, &seq[i])
		}
		n, end := longestRun(holds)
		if n == 0 {
			return
		}
		first, last := seq[end-n+1], seq[end]
		cands = append(cands, candidate{
			row: model.Row{
				PlayerID: first.PlayerID,
				Name:     first.Name,
				Value:    float64(n),
				Games:    n,
				From:     first.Date,
				To:       last.Date,
			},
			key: last.Date,
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
