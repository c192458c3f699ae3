package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// MatchSummary is one row of the match_summary view.
type MatchSummary struct {
	MatchID      int64   `db:"match_id"`
	GameID       string  `db:"game_id"`
	GameName     *string `db:"game_name"`
	TotalTurns   int64   `db:"total_turns"`
	MapWidth     *int64  `db:"map_width"`
	MapHeight    *int64  `db:"map_height"`
	SaveDate     *string `db:"save_date"`
	VersionBuild *int64  `db:"version_build"`
	CollectionID int64   `db:"collection_id"`
	VictoryType  *string `db:"victory_type"`
	WinnerName   *string `db:"winner_name"`
}

// ListMatches returns match summaries, newest save first. A zero
// collectionID lists every collection.
func (s *Store) ListMatches(collectionID int64) ([]MatchSummary, error) {
	query := "SELECT * FROM match_summary"
	var args []any
	if collectionID != 0 {
		query += " WHERE collection_id = ?"
		args = append(args, collectionID)
	}
	query += " ORDER BY save_date DESC, match_id DESC"

	var out []MatchSummary
	if err := s.db.Select(&out, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

// MatchChildTables lists every table holding per-match rows. The deletion
// cascade and the importer's re-import pass both walk it; matches itself is
// handled separately.
var MatchChildTables = []string{
	"id_mappings",
	"players",
	"characters",
	"cities",
	"tiles",
	"families",
	"religions",
	"tribes",
	"tile_ownership_history",
	"tile_visibility",
	"tile_changes",
	"character_stats",
	"character_traits",
	"character_relationships",
	"character_marriages",
	"city_production_queue",
	"city_projects_completed",
	"city_yields",
	"city_religions",
	"city_culture",
	"city_agents",
	"city_luxuries",
	"player_resources",
	"technology_progress",
	"technologies_completed",
	"technology_states",
	"player_council",
	"laws",
	"player_goals",
	"player_units_produced",
	"city_units_produced",
	"diplomacy",
	"event_logs",
	"memory_data",
	"story_events",
	"points_history",
	"military_history",
	"legitimacy_history",
	"family_opinion_history",
	"religion_opinion_history",
	"yield_rate_history",
	"yield_total_history",
	"yield_price_history",
}

// DeleteMatch removes a match and all rows derived from it.
func (s *Store) DeleteMatch(matchID int64) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range MatchChildTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_id = ?", matchID); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}

	res, err := tx.Exec("DELETE FROM matches WHERE match_id = ?", matchID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("match %d not found", matchID)
	}
	return tx.Commit()
}

// SeriesSample is one stored time-series row.
type SeriesSample struct {
	Turn  int64 `db:"turn"`
	Value int64 `db:"value"`
}

// seriesTables whitelists the flat per-player series readable through
// PlayerSeries. Table names cannot be parameterized, so only these pass.
var seriesTables = map[string]bool{
	"points_history":     true,
	"military_history":   true,
	"legitimacy_history": true,
}

// PlayerSeries reads the sparse samples of one flat series for a player,
// ordered by turn.
func (s *Store) PlayerSeries(table string, matchID, playerID int64) ([]SeriesSample, error) {
	if !seriesTables[table] {
		return nil, fmt.Errorf("unknown series table %q", table)
	}

	var out []SeriesSample
	err := s.db.Select(&out,
		"SELECT turn, value FROM "+table+" WHERE match_id = ? AND player_id = ? ORDER BY turn",
		matchID, playerID)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return out, nil
}

// ForwardFill expands sparse samples into one value per turn over
// [fromTurn, toTurn]. Every gap carries the preceding sample forward;
// turns before the first sample have no value and come back nil.
func ForwardFill(samples []SeriesSample, fromTurn, toTurn int64) []*int64 {
	if toTurn < fromTurn {
		return nil
	}

	out := make([]*int64, 0, toTurn-fromTurn+1)
	i := 0
	var current *int64
	for turn := fromTurn; turn <= toTurn; turn++ {
		for i < len(samples) && samples[i].Turn <= turn {
			v := samples[i].Value
			current = &v
			i++
		}
		out = append(out, current)
	}
	return out
}

// TileOwnerAt projects the owner of a tile at a turn from the ownership
// history: the greatest recorded turn not after the queried one. A nil
// result means the tile was unowned at that turn.
func (s *Store) TileOwnerAt(matchID, tileID, turn int64) (*int64, error) {
	var owner sql.NullInt64
	err := s.db.Get(&owner, `
		SELECT owner_player_id FROM tile_ownership_history
		WHERE match_id = ? AND tile_id = ? AND turn <= ?
		ORDER BY turn DESC LIMIT 1`, matchID, tileID, turn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !owner.Valid {
		return nil, nil
	}
	return &owner.Int64, nil
}
