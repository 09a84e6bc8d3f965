package engine

import (
	"context"
	"fmt"

	"github.com/pable/hoopstats/internal/model"
)

// duel compares two players game by game over the games both played. Each
// side is read with its own single-player filter; the two sequences only
// meet at the join on game id.
func (e *Engine) duel(ctx context.Context, q *query) (*model.Result, error) {
	idA, idB := q.p.EntityIDs[0], q.p.EntityIDs[1]

	playerA, err := e.player(ctx, idA)
	if err != nil {
		return nil, err
	}
	playerB, err := e.player(ctx, idB)
	if err != nil {
		return nil, err
	}

	sideA, err := e.side(ctx, q, idA)
	if err != nil {
		return nil, err
	}
	sideB, err := e.side(ctx, q, idB)
	if err != nil {
		return nil, err
	}

	byGame := make(map[string]*model.Event, len(sideB))
	for i := range sideB {
		byGame[sideB[i].GameID] = &sideB[i]
	}

	d := &model.Duel{PlayerA: playerA, PlayerB: playerB, Games: []model.DuelGame{}}
	// sideA is in date then game id order, so the rows are too.
	for i := range sideA {
		a := &sideA[i]
		b, ok := byGame[a.GameID]
		if !ok {
			continue
		}
		g := model.DuelGame{
			GameID: a.GameID,
			Date:   a.Date,
			TeamA:  a.Team,
			TeamB:  b.Team,
			ValueA: q.expr.Eval(a),
			ValueB: q.expr.Eval(b),
		}
		switch {
		case g.ValueA > g.ValueB:
			g.Winner = model.SideA
			d.AWins++
		case g.ValueB > g.ValueA:
			g.Winner = model.SideB
			d.BWins++
		default:
			g.Winner = model.SideTie
			d.Ties++
		}
		d.TotalA += g.ValueA
		d.TotalB += g.ValueB
		d.Games = append(d.Games, g)
	}

	res := &model.Result{Duel: d, Status: model.StatusOK}
	if len(d.Games) == 0 {
		res.Status = model.StatusNoData
	}
	return res, nil
}

// side reads one player's events and refuses anything that is not theirs.
func (e *Engine) side(ctx context.Context, q *query, id string) ([]model.Event, error) {
	events, err := e.events(ctx, q.filter.ForPlayer(id))
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].PlayerID != id {
			e.rec.RecordStoreError()
			return nil, storeUnavailable("read events",
				fmt.Errorf("filter for %s returned a row for %s", id, events[i].PlayerID))
		}
	}
	return events, nil
}

func (e *Engine) player(ctx context.Context, id string) (model.Player, error) {
	p, err := e.store.GetPlayer(ctx, id)
	if err != nil {
		e.rec.RecordStoreError()
		return model.Player{}, storeUnavailable("read player", err)
	}
	if p == nil {
		return model.Player{ID: id, Name: id}, nil
	}
	return *p, nil
}
