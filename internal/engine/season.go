package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

// qualifyingSeasons totals values per season and reports how many seasons
// reach threshold, with the first and last of them. seasons must be in
// ascending order, which date-ordered events guarantee.
func qualifyingSeasons(seasons []int, values []float64, threshold float64) (count, first, last int) {
	for i := 0; i < len(seasons); {
		j := i
		var total float64
		for j < len(seasons) && seasons[j] == seasons[i] {
			total += values[j]
			j++
		}
		if total >= threshold {
			if count == 0 {
				first = seasons[i]
			}
			last = seasons[i]
			count++
		}
		i = j
	}
	return count, first, last
}

// seasonCount ranks players by the number of seasons in which their total of
// the label reached the threshold.
func (e *Engine) seasonCount(ctx context.Context, q *query) (*model.Result, error) {
	events, err := e.events(ctx, q.filter)
	if err != nil {
		return nil, err
	}
	threshold := *q.p.Threshold

	var cands []candidate
	storage.ForEachPlayer(events, func(seq []model.Event) {
		seasons := make([]int, len(seq))
		values := make([]float64, len(seq))
		for i := range seq {
			seasons[i] = seq[i].Season
			values[i] = q.expr.Eval(&seq[i])
		}
		n, first, last := qualifyingSeasons(seasons, values, threshold)
		if n == 0 {
			return
		}
		cands = append(cands, candidate{
			row: model.Row{
				PlayerID: seq[0].PlayerID,
				Name:     seq[0].Name,
				Value:    float64(n),
				Games:    len(seq),
				From:     seasonName(first),
				To:       seasonName(last),
			},
			key: fmt.Sprintf("%04d", first),
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

// seasonName renders a start year as "2019-20".
func seasonName(start int) string {
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
