package importer

import (
	"github.com/jmoiron/sqlx"

	"github.com/becked/per-ankh-sub000/internal/save"
)

// Detail inserters for the tables written after the foundation and
// affiliation phases. All foundation ids are registered by the time these
// run, so lookups are plain map hits.

func insertUnitProduction(tx *sqlx.Tx, m *IDMap, matchID int64, players []save.PlayerUnitsProduced, cities []save.CityUnitsProduced) error {
	type key struct {
		id   int64
		unit string
	}

	prows := make([][]any, 0, len(players))
	for _, p := range players {
		playerID, err := m.Lookup(KindPlayer, p.PlayerXMLID, "player_units_produced")
		if err != nil {
			return err
		}
		prows = append(prows, []any{matchID, playerID, p.UnitType, p.Count})
	}
	prows = dedupeLastWins(prows, func(r []any) key { return key{r[1].(int64), r[2].(string)} })
	if err := bulkInsert(tx, "player_units_produced",
		[]string{"match_id", "player_id", "unit_type", "produced_count"}, prows); err != nil {
		return err
	}

	crows := make([][]any, 0, len(cities))
	for _, c := range cities {
		cityID, err := m.Lookup(KindCity, c.CityXMLID, "city_units_produced")
		if err != nil {
			return err
		}
		crows = append(crows, []any{matchID, cityID, c.UnitType, c.Count})
	}
	crows = dedupeLastWins(crows, func(r []any) key { return key{r[1].(int64), r[2].(string)} })
	return bulkInsert(tx, "city_units_produced",
		[]string{"match_id", "city_id", "unit_type", "produced_count"}, crows)
}

func insertPlayerGameplay(tx *sqlx.Tx, m *IDMap, matchID int64, g *save.PlayerGameplay) error {
	player := func(xmlID int32, table string) (int64, error) { return m.Lookup(KindPlayer, xmlID, table) }

	var rows [][]any
	for _, r := range g.Resources {
		id, err := player(r.PlayerXMLID, "player_resources")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, r.Resource, r.Amount})
	}
	if err := bulkInsert(tx, "player_resources",
		[]string{"match_id", "player_id", "resource", "amount"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, t := range g.TechProgress {
		id, err := player(t.PlayerXMLID, "technology_progress")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, t.Tech, t.Progress})
	}
	if err := bulkInsert(tx, "technology_progress",
		[]string{"match_id", "player_id", "tech", "progress"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, t := range g.TechCompleted {
		id, err := player(t.PlayerXMLID, "technologies_completed")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, t.Tech, t.Count})
	}
	if err := bulkInsert(tx, "technologies_completed",
		[]string{"match_id", "player_id", "tech", "completed_count"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, t := range g.TechStates {
		id, err := player(t.PlayerXMLID, "technology_states")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, t.Tech, t.State})
	}
	if err := bulkInsert(tx, "technology_states",
		[]string{"match_id", "player_id", "tech", "state"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, c := range g.Council {
		id, err := player(c.PlayerXMLID, "player_council")
		if err != nil {
			return err
		}
		charID, err := m.Lookup(KindCharacter, c.CharacterXMLID, "player_council")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, c.Position, charID})
	}
	if err := bulkInsert(tx, "player_council",
		[]string{"match_id", "player_id", "position", "character_id"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, l := range g.Laws {
		id, err := player(l.PlayerXMLID, "laws")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, l.LawClass, l.Law})
	}
	if err := bulkInsert(tx, "laws",
		[]string{"match_id", "player_id", "law_class", "law"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, goal := range g.Goals {
		id, err := player(goal.PlayerXMLID, "player_goals")
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			matchID, id, goal.GoalID, goal.Goal, goal.StartedTurn,
			goal.MaxTurns, b2i(goal.Finished),
			m.LookupOpt(KindCharacter, goal.LeaderCharacterXMLID),
		})
	}
	return bulkInsert(tx, "player_goals",
		[]string{"match_id", "player_id", "goal_id", "goal", "started_turn",
			"max_turns", "finished", "leader_character_id"}, rows)
}

// insertDiplomacy stores edges with party ids as strings; tribe parties are
// named, not numbered.
func insertDiplomacy(tx *sqlx.Tx, matchID int64, edges []save.DiplomacyEdge) error {
	type key struct{ t1, i1, t2, i2 string }
	edges = dedupeLastWins(edges, func(e save.DiplomacyEdge) key {
		return key{e.Entity1Type, e.Entity1ID, e.Entity2Type, e.Entity2ID}
	})

	rows := make([][]any, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, []any{matchID, e.Entity1Type, e.Entity1ID, e.Entity2Type, e.Entity2ID, e.Relation})
	}
	return bulkInsert(tx, "diplomacy",
		[]string{"match_id", "entity1_type", "entity1_id", "entity2_type", "entity2_id", "relation"}, rows)
}

func insertTimeseries(tx *sqlx.Tx, m *IDMap, matchID int64, ts *save.Timeseries) error {
	flat := []struct {
		table   string
		samples []save.PlayerSeriesPoint
	}{
		{"points_history", ts.Points},
		{"military_history", ts.MilitaryPower},
		{"legitimacy_history", ts.Legitimacy},
	}
	for _, series := range flat {
		rows := make([][]any, 0, len(series.samples))
		for _, p := range series.samples {
			id, err := m.Lookup(KindPlayer, p.PlayerXMLID, series.table)
			if err != nil {
				return err
			}
			rows = append(rows, []any{matchID, id, p.Turn, p.Value})
		}
		type key struct {
			id   int64
			turn int32
		}
		rows = dedupeLastWins(rows, func(r []any) key { return key{r[1].(int64), r[2].(int32)} })
		if err := bulkInsert(tx, series.table,
			[]string{"match_id", "player_id", "turn", "value"}, rows); err != nil {
			return err
		}
	}

	categorized := []struct {
		table   string
		col     string
		samples []save.CategorySeriesPoint
	}{
		{"family_opinion_history", "family_name", ts.FamilyOpinion},
		{"religion_opinion_history", "religion_name", ts.ReligionOpinion},
		{"yield_rate_history", "yield_type", ts.YieldRates},
		{"yield_total_history", "yield_type", ts.YieldTotals},
	}
	for _, series := range categorized {
		rows := make([][]any, 0, len(series.samples))
		for _, p := range series.samples {
			id, err := m.Lookup(KindPlayer, p.PlayerXMLID, series.table)
			if err != nil {
				return err
			}
			rows = append(rows, []any{matchID, id, p.Category, p.Turn, p.Value})
		}
		type key struct {
			id       int64
			category string
			turn     int32
		}
		rows = dedupeLastWins(rows, func(r []any) key {
			return key{r[1].(int64), r[2].(string), r[3].(int32)}
		})
		if err := bulkInsert(tx, series.table,
			[]string{"match_id", "player_id", series.col, "turn", "value"}, rows); err != nil {
			return err
		}
	}

	rows := make([][]any, 0, len(ts.YieldPrices))
	for _, p := range ts.YieldPrices {
		rows = append(rows, []any{matchID, p.Yield, p.Turn, p.Price})
	}
	type priceKey struct {
		yield string
		turn  int32
	}
	rows = dedupeLastWins(rows, func(r []any) priceKey { return priceKey{r[1].(string), r[2].(int32)} })
	return bulkInsert(tx, "yield_price_history",
		[]string{"match_id", "yield_type", "turn", "price"}, rows)
}

func insertCharacterExtended(tx *sqlx.Tx, m *IDMap, matchID int64, ext *save.CharacterExtended) error {
	var rows [][]any
	for _, st := range ext.Stats {
		id, err := m.Lookup(KindCharacter, st.CharacterXMLID, "character_stats")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, st.Name, st.Value})
	}
	if err := bulkInsert(tx, "character_stats",
		[]string{"match_id", "character_id", "stat_name", "stat_value"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, tr := range ext.Traits {
		id, err := m.Lookup(KindCharacter, tr.CharacterXMLID, "character_traits")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, tr.Trait, tr.AcquiredTurn})
	}
	if err := bulkInsert(tx, "character_traits",
		[]string{"match_id", "character_id", "trait", "acquired_turn"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, rel := range ext.Relationships {
		id, err := m.Lookup(KindCharacter, rel.CharacterXMLID, "character_relationships")
		if err != nil {
			return err
		}
		relID := rel.RelatedCharacterXMLID
		related := m.LookupOpt(KindCharacter, &relID)
		if related == nil {
			// The save references characters it never defines.
			continue
		}
		rows = append(rows, []any{matchID, id, *related, rel.Relationship, rel.Value, rel.StartedTurn})
	}
	type relKey struct {
		a, b int64
		rel  string
	}
	rows = dedupeLastWins(rows, func(r []any) relKey {
		return relKey{r[1].(int64), r[2].(int64), r[3].(string)}
	})
	if err := bulkInsert(tx, "character_relationships",
		[]string{"match_id", "character_id", "related_character_id", "relationship", "value", "started_turn"}, rows); err != nil {
		return err
	}

	// Marriages are stored symmetrically: one row per endpoint.
	rows = rows[:0]
	for _, ma := range ext.Marriages {
		id, err := m.Lookup(KindCharacter, ma.CharacterXMLID, "character_marriages")
		if err != nil {
			return err
		}
		spouseID := ma.SpouseXMLID
		spouse := m.LookupOpt(KindCharacter, &spouseID)
		if spouse == nil {
			continue
		}
		rows = append(rows, []any{matchID, id, *spouse, ma.MarriedTurn})
		rows = append(rows, []any{matchID, *spouse, id, ma.MarriedTurn})
	}
	type marriageKey struct{ a, b int64 }
	rows = dedupeFirstWins(rows, func(r []any) marriageKey {
		return marriageKey{r[1].(int64), r[2].(int64)}
	})
	return bulkInsert(tx, "character_marriages",
		[]string{"match_id", "character_id", "spouse_id", "married_turn"}, rows)
}

func insertCityExtended(tx *sqlx.Tx, m *IDMap, matchID int64, ext *save.CityExtended) error {
	city := func(xmlID int32, table string) (int64, error) { return m.Lookup(KindCity, xmlID, table) }

	var rows [][]any
	for _, q := range ext.Queue {
		id, err := city(q.CityXMLID, "city_production_queue")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, q.Position, q.Build, q.ItemType, q.Progress, b2i(q.IsRepeat)})
	}
	if err := bulkInsert(tx, "city_production_queue",
		[]string{"match_id", "city_id", "position", "build", "item_type", "progress", "is_repeat"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, p := range ext.Completed {
		id, err := city(p.CityXMLID, "city_projects_completed")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, p.Project, p.Count})
	}
	if err := bulkInsert(tx, "city_projects_completed",
		[]string{"match_id", "city_id", "project", "completed_count"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, y := range ext.Yields {
		id, err := city(y.CityXMLID, "city_yields")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, y.Yield, y.Progress})
	}
	if err := bulkInsert(tx, "city_yields",
		[]string{"match_id", "city_id", "yield_type", "progress"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range ext.Religions {
		id, err := city(r.CityXMLID, "city_religions")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, r.Religion})
	}
	if err := bulkInsert(tx, "city_religions",
		[]string{"match_id", "city_id", "religion"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, c := range ext.Culture {
		id, err := city(c.CityXMLID, "city_culture")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, c.Team, c.CultureLevel, c.HappinessLevel})
	}
	if err := bulkInsert(tx, "city_culture",
		[]string{"match_id", "city_id", "team", "culture_level", "happiness_level"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, a := range ext.Agents {
		id, err := city(a.CityXMLID, "city_agents")
		if err != nil {
			return err
		}
		enemyID := a.EnemyPlayerXMLID
		enemy := m.LookupOpt(KindPlayer, &enemyID)
		if enemy == nil {
			continue
		}
		rows = append(rows, []any{
			matchID, id, *enemy, a.PlacedTurn,
			m.LookupOpt(KindCharacter, a.CharacterXMLID),
			m.LookupOpt(KindTile, a.TileXMLID),
		})
	}
	if err := bulkInsert(tx, "city_agents",
		[]string{"match_id", "city_id", "enemy_player_id", "placed_turn", "character_id", "tile_id"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, l := range ext.Luxuries {
		id, err := city(l.CityXMLID, "city_luxuries")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, l.Resource, l.AcquiredTurn})
	}
	return bulkInsert(tx, "city_luxuries",
		[]string{"match_id", "city_id", "resource", "acquired_turn"}, rows)
}

func insertTileExtended(tx *sqlx.Tx, m *IDMap, matchID int64, ext *save.TileExtended) error {
	rows := make([][]any, 0, len(ext.Visibility))
	for _, v := range ext.Visibility {
		id, err := m.Lookup(KindTile, v.TileXMLID, "tile_visibility")
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			matchID, id, v.Team, v.RevealedTurn,
			m.LookupOpt(KindPlayer, v.VisibleOwnerXMLID),
		})
	}
	if err := bulkInsert(tx, "tile_visibility",
		[]string{"match_id", "tile_id", "team", "revealed_turn", "visible_owner_id"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, c := range ext.Changes {
		id, err := m.Lookup(KindTile, c.TileXMLID, "tile_changes")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, c.Turn, c.ChangeType, c.NewValue})
	}
	return bulkInsert(tx, "tile_changes",
		[]string{"match_id", "tile_id", "turn", "change_type", "new_value"}, rows)
}

func insertEvents(tx *sqlx.Tx, m *IDMap, matchID int64, stories []save.StoryEvent, logs []save.EventLog, memories []save.Memory) error {
	rows := make([][]any, 0, len(stories))
	for _, st := range stories {
		id, err := m.Lookup(KindPlayer, st.PlayerXMLID, "story_events")
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			matchID, id, st.EventType, st.Turn,
			m.LookupOpt(KindCharacter, st.CharacterXMLID),
			m.LookupOpt(KindCity, st.CityXMLID),
		})
	}
	if err := bulkInsert(tx, "story_events",
		[]string{"match_id", "player_id", "event_type", "turn", "character_id", "city_id"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, l := range logs {
		id, err := m.Lookup(KindPlayer, l.PlayerXMLID, "event_logs")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, l.LogType, l.Turn, l.Description, l.Data1, l.Data2, l.Data3})
	}
	if err := bulkInsert(tx, "event_logs",
		[]string{"match_id", "player_id", "log_type", "turn", "description", "data1", "data2", "data3"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, mem := range memories {
		id, err := m.Lookup(KindPlayer, mem.PlayerXMLID, "memory_data")
		if err != nil {
			return err
		}
		rows = append(rows, []any{matchID, id, mem.MemoryType, mem.Turn, mem.SubjectType, mem.SubjectID})
	}
	return bulkInsert(tx, "memory_data",
		[]string{"match_id", "player_id", "memory_type", "turn", "subject_type", "subject_id"}, rows)
}
