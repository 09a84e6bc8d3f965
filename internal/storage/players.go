package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pable/hoopstats/internal/model"
)

// GetPlayer returns the profile for id, or nil when it is unknown.
func (db *DB) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	var p model.Player
	var birth sql.NullString
	err := db.conn.QueryRowContext(ctx, `
		SELECT player_id, name, birth_date FROM players WHERE player_id = ?`, id).
		Scan(&p.ID, &p.Name, &birth)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.BirthDate = birth.String
	return &p, nil
}

// FindPlayers returns players whose id equals q or whose name contains it,
// ordered by name.
func (db *DB) FindPlayers(ctx context.Context, q string) ([]model.Player, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT player_id, name, birth_date FROM players
		WHERE player_id = ? OR name LIKE ?
		ORDER BY name ASC, player_id ASC
		LIMIT 50`, q, "%"+q+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		var p model.Player
		var birth sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &birth); err != nil {
			return nil, err
		}
		p.BirthDate = birth.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// ErrAmbiguousPlayer is returned by ResolvePlayer when a name matches
// several players and none exactly.
var ErrAmbiguousPlayer = errors.New("ambiguous player")

// ResolvePlayer maps an id or name to one player: an exact id, then an
// exact case-insensitive name, then a sole partial name match. It returns
// nil when nothing matches.
func (db *DB) ResolvePlayer(ctx context.Context, q string) (*model.Player, error) {
	q = strings.TrimSpace(q)
	if p, err := db.GetPlayer(ctx, q); err != nil || p != nil {
		return p, err
	}
	found, err := db.FindPlayers(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range found {
		if strings.EqualFold(found[i].Name, q) {
			return &found[i], nil
		}
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return &found[0], nil
	}
	names := make([]string, 0, 3)
	for _, p := range found[:min(3, len(found))] {
		names = append(names, p.Name)
	}
	return nil, fmt.Errorf("%w %q: matches %s", ErrAmbiguousPlayer, q, strings.Join(names, ", "))
}

// Overview holds high-level counts about the stored dataset.
type Overview struct {
	Players       int                    `json:"players"`
	Games         int                    `json:"games"`
	Events        int                    `json:"events"`
	EarliestGame  string                 `json:"earliest_game"`
	LatestGame    string                 `json:"latest_game"`
	GamesByType   map[model.GameType]int `json:"games_by_type"`
	GamesByLeague map[string]int         `json:"games_by_league"`
}

// GetOverview summarises what the store holds.
func (db *DB) GetOverview(ctx context.Context) (Overview, error) {
	ov := Overview{
		GamesByType:   make(map[model.GameType]int),
		GamesByLeague: make(map[string]int),
	}
	err := db.conn.QueryRowContext(ctx, `
		SELECT
		  (SELECT COUNT(1) FROM players),
		  (SELECT COUNT(1) FROM games),
		  (SELECT COUNT(1) FROM boxscore WHERE pts IS NOT NULL),
		  COALESCE((SELECT MIN(game_date) FROM games), ''),
		  COALESCE((SELECT MAX(game_date) FROM games), '')`).
		Scan(&ov.Players, &ov.Games, &ov.Events, &ov.EarliestGame, &ov.LatestGame)
	if err != nil {
		return ov, fmt.Errorf("overview counts: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT league, game_type, COUNT(1) FROM games GROUP BY league, game_type`)
	if err != nil {
		return ov, fmt.Errorf("overview breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var league, gameType string
		var n int
		if err := rows.Scan(&league, &gameType, &n); err != nil {
			return ov, err
		}
		ov.GamesByType[model.GameType(gameType)] += n
		ov.GamesByLeague[league] += n
	}
	return ov, rows.Err()
}

// QueryRaw runs an arbitrary read query and returns column names and rows
// rendered as strings.
func (db *DB) QueryRaw(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
