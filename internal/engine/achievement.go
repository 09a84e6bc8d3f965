package engine

import (
	"context"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

// achievements counts the games in which the label holds. A plain stat
// holds when it is at least 1, the same reading the streak engine uses.
func (e *Engine) achievements(ctx context.Context, q *query) (*model.Result, error) {
	return e.totals(ctx, storage.TotalsQuery{
		Filter:   q.filter,
		Expr:     q.expr,
		Agg:      storage.AggCount,
		MinGames: q.p.MinGames,
		NonZero:  true,
		Limit:    q.p.TopN,
	})
}
