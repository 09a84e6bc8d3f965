package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/pable/hoopstats/internal/model"
)

// StatLine is an event as ingested. Recorded marks which stats the source
// actually carried; unrecorded stats are stored as NULL.
type StatLine struct {
	model.Event
	Recorded [model.NumStats]bool
}

// Line wraps ev with every stat marked as recorded.
func Line(ev model.Event) StatLine {
	l := StatLine{Event: ev}
	for i := range l.Recorded {
		l.Recorded[i] = true
	}
	return l
}

// InsertPlayers upserts player profiles in a transaction.
func (db *DB) InsertPlayers(ctx context.Context, players []model.Player) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO players(player_id, name, birth_date)
		VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		var birth any
		if p.BirthDate != "" {
			birth = p.BirthDate
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, birth); err != nil {
			return fmt.Errorf("insert player %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// InsertGames upserts game metadata in a transaction.
func (db *DB) InsertGames(ctx context.Context, games []model.Game) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO games(
			game_id, game_date, season_start_year, league, game_type,
			home_team, away_team, home_points, away_points, winner
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, g := range games {
		league := g.League
		if league == "" {
			league = "NBA"
		}
		gameType := g.Type
		if gameType == "" {
			gameType = model.GameRegular
		}
		_, err := stmt.ExecContext(ctx,
			g.ID, g.Date, g.SeasonStartYear, league, string(gameType),
			g.HomeTeam, g.AwayTeam, g.HomePoints, g.AwayPoints, g.Winner,
		)
		if err != nil {
			return fmt.Errorf("insert game %s: %w", g.ID, err)
		}
	}
	return tx.Commit()
}

// InsertEvents upserts box-score lines in a transaction.
func (db *DB) InsertEvents(ctx context.Context, lines []StatLine) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cols := make([]string, 0, model.NumStats)
	for _, st := range model.AllStats() {
		cols = append(cols, st.Column())
	}
	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO boxscore(game_id, player_id, team, is_starter, %s)
		VALUES (%s)`, strings.Join(cols, ", "), placeholders(4+len(cols)))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range lines {
		args := make([]any, 0, 4+len(cols))
		args = append(args, l.GameID, l.PlayerID, l.Team, boolInt(l.Starter))
		for i, v := range l.Stats {
			if l.Recorded[i] {
				args = append(args, v)
			} else {
				args = append(args, nil)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert boxscore %s/%s: %w", l.GameID, l.PlayerID, err)
		}
	}
	return tx.Commit()
}
