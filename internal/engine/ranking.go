package engine

import (
	"context"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

// ranking totals the label per player under the age and game filters.
// Plain stats are summed; conditions are counted. Zero counts are dropped
// so a player never appears for something they did not do.
func (e *Engine) ranking(ctx context.Context, q *query) (*model.Result, error) {
	agg := storage.AggSum
	switch {
	case q.p.Aggregation == model.AggAvg:
		agg = storage.AggAvg
	case q.expr.Boolean():
		agg = storage.AggCount
	}
	return e.totals(ctx, storage.TotalsQuery{
		Filter:   q.filter,
		Expr:     q.expr,
		Agg:      agg,
		MinGames: q.p.MinGames,
		NonZero:  q.expr.Boolean(),
		Limit:    q.p.TopN,
	})
}

// totals runs an aggregate read and turns it into ranked rows. The store
// orders by value descending then player id, which is the ranking contract.
func (e *Engine) totals(ctx context.Context, tq storage.TotalsQuery) (*model.Result, error) {
	totals, err := e.store.Totals(ctx, tq)
	if err != nil {
		e.rec.RecordStoreError()
		return nil, storeUnavailable("read totals", err)
	}
	scanned := 0
	rows := make([]model.Row, 0, len(totals))
	for i, t := range totals {
		scanned += t.Games
		rows = append(rows, model.Row{
			Rank:     i + 1,
			PlayerID: t.PlayerID,
			Name:     t.Name,
			Value:    t.Value,
			Games:    t.Games,
		})
	}
	e.rec.RecordEventsScanned(scanned)
	return &model.Result{Rows: rows}, nil
}
