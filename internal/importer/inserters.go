package importer

import (
	"github.com/jmoiron/sqlx"

	"github.com/becked/per-ankh-sub000/internal/save"
)

// Foundation inserters. Each one owns a single table and writes rows in the
// schema's column order. External references are resolved through the
// identity map, which the orchestrator pre-registers for every foundation
// entity before any insert runs.

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

var playerColumns = []string{
	"player_id", "match_id", "xml_id", "player_name", "nation", "dynasty",
	"team_id", "is_human", "is_save_owner", "online_id", "email",
	"difficulty", "last_turn_completed", "turn_ended", "legitimacy",
	"time_stockpile", "state_religion", "succession_gender",
	"founder_character_id", "chosen_heir_id", "original_capital_city_id",
	"tech_researching", "ambition_delay", "tiles_purchased",
	"state_religion_changes", "tribe_mercenaries_hired",
}

func insertPlayers(tx *sqlx.Tx, m *IDMap, matchID int64, players []save.Player) error {
	players = dedupeLastWins(players, func(p save.Player) int32 { return p.XMLID })

	rows := make([][]any, 0, len(players))
	for _, p := range players {
		dbID, err := m.Lookup(KindPlayer, p.XMLID, "players")
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			dbID, matchID, p.XMLID, p.Name, p.Nation, p.Dynasty,
			p.TeamID, b2i(p.IsHuman), b2i(p.IsSaveOwner), p.OnlineID, p.Email,
			p.Difficulty, p.LastTurnCompleted, b2i(p.TurnEnded), p.Legitimacy,
			p.TimeStockpile, p.StateReligion, p.SuccessionGender,
			m.LookupOpt(KindCharacter, p.FounderCharacterXMLID),
			m.LookupOpt(KindCharacter, p.ChosenHeirXMLID),
			m.LookupOpt(KindCity, p.OriginalCapitalCityXMLID),
			p.TechResearching, p.AmbitionDelay, p.TilesPurchased,
			p.StateReligionChanges, p.TribeMercenariesHired,
		})
	}
	return bulkInsert(tx, "players", playerColumns, rows)
}

// applyWinnerPatch resolves the winner hint against the inserted players and
// sets matches.winner_player_id. An explicit victor attribute wins; a team
// victory without one falls back to the human player.
func applyWinnerPatch(tx *sqlx.Tx, m *IDMap, matchID int64, match *save.Match, players []save.Player) error {
	var winnerXML *int32
	switch {
	case match.Winner.VictorPlayerXMLID != nil:
		winnerXML = match.Winner.VictorPlayerXMLID
	case match.Winner.HasTeamVictory:
		for _, p := range players {
			if p.IsHuman {
				id := p.XMLID
				winnerXML = &id
				break
			}
		}
	}

	winnerID := m.LookupOpt(KindPlayer, winnerXML)
	if winnerID == nil {
		return nil
	}
	_, err := tx.Exec(
		"UPDATE matches SET winner_player_id = ?, victory_type = ? WHERE match_id = ?",
		*winnerID, match.Winner.VictoryType, matchID)
	return err
}

var characterColumns = []string{
	"character_id", "match_id", "xml_id", "first_name", "gender",
	"player_id", "tribe", "birth_turn", "birth_city_id", "death_turn",
	"death_reason", "birth_father_id", "birth_mother_id", "family",
	"nation", "religion", "cognomen", "archetype", "portrait", "xp",
	"level", "is_royal", "is_infertile", "became_leader_turn",
	"abdicated_turn", "was_religion_head", "was_family_head",
	"nation_joined_turn", "seed",
}

// insertCharacters writes core character rows. Parent links and birth city
// stay NULL here; dedicated patch passes fill them once their referents
// exist.
func insertCharacters(tx *sqlx.Tx, m *IDMap, matchID int64, chars []save.Character) error {
	chars = dedupeLastWins(chars, func(c save.Character) int32 { return c.XMLID })

	rows := make([][]any, 0, len(chars))
	for _, c := range chars {
		dbID, err := m.Lookup(KindCharacter, c.XMLID, "characters")
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			dbID, matchID, c.XMLID, c.FirstName, c.Gender,
			m.LookupOpt(KindPlayer, c.PlayerXMLID), c.Tribe, c.BirthTurn, nil, c.DeathTurn,
			c.DeathReason, nil, nil, c.Family,
			c.Nation, c.Religion, c.Cognomen, c.Archetype, c.Portrait, c.XP,
			c.Level, b2i(c.IsRoyal), b2i(c.IsInfertile), c.BecameLeaderTurn,
			c.AbdicatedTurn, b2i(c.WasReligionHead), b2i(c.WasFamilyHead),
			c.NationJoinedTurn, c.Seed,
		})
	}
	return bulkInsert(tx, "characters", characterColumns, rows)
}

// patchCharacterParents fills birth_father_id and birth_mother_id after all
// character rows exist. This must run before any table that references
// characters is written.
func patchCharacterParents(tx *sqlx.Tx, m *IDMap, matchID int64, chars []save.Character) error {
	fathers := make(map[int64]int64)
	mothers := make(map[int64]int64)
	for _, c := range chars {
		dbID, err := m.Lookup(KindCharacter, c.XMLID, "characters")
		if err != nil {
			return err
		}
		if f := m.LookupOpt(KindCharacter, c.BirthFatherXMLID); f != nil {
			fathers[dbID] = *f
		}
		if mo := m.LookupOpt(KindCharacter, c.BirthMotherXMLID); mo != nil {
			mothers[dbID] = *mo
		}
	}

	if err := patchByCase(tx, "characters", "character_id", "birth_father_id", matchID, fathers); err != nil {
		return err
	}
	return patchByCase(tx, "characters", "character_id", "birth_mother_id", matchID, mothers)
}

// patchCharacterBirthCities runs after cities are inserted.
func patchCharacterBirthCities(tx *sqlx.Tx, m *IDMap, matchID int64, chars []save.Character) error {
	cities := make(map[int64]int64)
	for _, c := range chars {
		dbID, err := m.Lookup(KindCharacter, c.XMLID, "characters")
		if err != nil {
			return err
		}
		if city := m.LookupOpt(KindCity, c.BirthCityXMLID); city != nil {
			cities[dbID] = *city
		}
	}
	return patchByCase(tx, "characters", "character_id", "birth_city_id", matchID, cities)
}

var tileColumns = []string{
	"tile_id", "match_id", "xml_id", "x", "y", "terrain", "height",
	"vegetation", "river_w", "river_sw", "river_se", "resource",
	"improvement", "improvement_pillaged", "improvement_disabled",
	"improvement_turns_left", "specialist", "has_road", "owner_player_id",
	"owner_city_id", "tribe_site", "religion", "init_seed", "turn_seed",
}

// insertTiles writes tile rows with owner_city_id NULL; the city-territory
// patch fills it after cities exist.
func insertTiles(tx *sqlx.Tx, m *IDMap, matchID int64, tiles []save.Tile) error {
	tiles = dedupeLastWins(tiles, func(t save.Tile) int32 { return t.XMLID })

	rows := make([][]any, 0, len(tiles))
	for _, t := range tiles {
		dbID, err := m.Lookup(KindTile, t.XMLID, "tiles")
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			dbID, matchID, t.XMLID, t.X, t.Y, t.Terrain, t.Height,
			t.Vegetation, b2i(t.RiverW), b2i(t.RiverSW), b2i(t.RiverSE), t.Resource,
			t.Improvement, b2i(t.ImprovementPillaged), b2i(t.ImprovementDisabled),
			t.ImprovementTurnsLeft, t.Specialist, b2i(t.HasRoad),
			m.LookupOpt(KindPlayer, t.OwnerPlayerXMLID),
			nil, t.TribeSite, t.Religion, t.InitSeed, t.TurnSeed,
		})
	}
	return bulkInsert(tx, "tiles", tileColumns, rows)
}

var cityColumns = []string{
	"city_id", "match_id", "xml_id", "player_id", "tile_id", "city_name",
	"family", "founded_turn", "is_capital", "citizens", "governor_id",
	"governor_turn", "hurry_civics_count", "hurry_money_count",
	"hurry_training_count", "hurry_population_count", "specialist_count",
	"growth_count", "unit_production_count", "buy_tile_count",
	"first_owner_player_id", "last_owner_player_id",
}

func insertCities(tx *sqlx.Tx, m *IDMap, matchID int64, cities []save.City) error {
	cities = dedupeLastWins(cities, func(c save.City) int32 { return c.XMLID })

	rows := make([][]any, 0, len(cities))
	for _, c := range cities {
		dbID, err := m.Lookup(KindCity, c.XMLID, "cities")
		if err != nil {
			return err
		}
		tileID := c.TileXMLID
		rows = append(rows, []any{
			dbID, matchID, c.XMLID, m.LookupOpt(KindPlayer, c.PlayerXMLID),
			m.LookupOpt(KindTile, &tileID), c.Name,
			c.Family, c.FoundedTurn, b2i(c.IsCapital), c.Citizens,
			m.LookupOpt(KindCharacter, c.GovernorXMLID),
			c.GovernorTurn, c.HurryCivicsCount, c.HurryMoneyCount,
			c.HurryTrainingCount, c.HurryPopulationCount, c.SpecialistCount,
			c.GrowthCount, c.UnitProductionCount, c.BuyTileCount,
			m.LookupOpt(KindPlayer, c.FirstPlayerXMLID),
			m.LookupOpt(KindPlayer, c.LastPlayerXMLID),
		})
	}
	return bulkInsert(tx, "cities", cityColumns, rows)
}

// patchTileOwnerCities fills tiles.owner_city_id from the per-tile
// CityTerritory hint once city rows exist.
func patchTileOwnerCities(tx *sqlx.Tx, m *IDMap, matchID int64, tiles []save.Tile) error {
	updates := make(map[int64]int64)
	for _, t := range tiles {
		dbID, err := m.Lookup(KindTile, t.XMLID, "tiles")
		if err != nil {
			return err
		}
		if city := m.LookupOpt(KindCity, t.CityTerritoryXMLID); city != nil {
			updates[dbID] = *city
		}
	}
	return patchByCase(tx, "tiles", "tile_id", "owner_city_id", matchID, updates)
}

// insertOwnershipHistory writes one row per tile ownership transition.
// Negative owners were filtered at parse time; an owner unknown to the id
// map is stored as NULL rather than dropped, so the turn itself survives.
func insertOwnershipHistory(tx *sqlx.Tx, m *IDMap, matchID int64, tiles []save.Tile) error {
	var rows [][]any
	for _, t := range tiles {
		tileID, err := m.Lookup(KindTile, t.XMLID, "tile_ownership_history")
		if err != nil {
			return err
		}
		for _, tv := range t.OwnerHistory {
			owner := tv.Value
			rows = append(rows, []any{matchID, tileID, tv.Turn, m.LookupOpt(KindPlayer, &owner)})
		}
	}
	return bulkInsert(tx, "tile_ownership_history",
		[]string{"match_id", "tile_id", "turn", "owner_player_id"}, rows)
}

var familyColumns = []string{
	"family_id", "match_id", "xml_id", "family_name", "family_class",
	"player_id", "head_character_id", "seat_city_id", "turns_without_leader",
}

func insertFamilies(tx *sqlx.Tx, m *IDMap, matchID int64, families []save.Family) error {
	families = dedupeLastWins(families, func(f save.Family) int32 { return f.XMLID })

	rows := make([][]any, 0, len(families))
	for _, f := range families {
		dbID := m.Map(KindFamily, f.XMLID)
		playerID, err := m.Lookup(KindPlayer, f.PlayerXMLID, "families")
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			dbID, matchID, f.XMLID, f.Name, f.Class, playerID,
			m.LookupOpt(KindCharacter, f.HeadCharacterXMLID),
			m.LookupOpt(KindCity, f.SeatCityXMLID),
			f.TurnsWithoutLeader,
		})
	}
	return bulkInsert(tx, "families", familyColumns, rows)
}

var religionColumns = []string{
	"religion_id", "match_id", "xml_id", "religion_name", "founded_turn",
	"founder_player_id", "head_character_id", "holy_city_id",
}

func insertReligions(tx *sqlx.Tx, m *IDMap, matchID int64, religions []save.Religion) error {
	religions = dedupeLastWins(religions, func(r save.Religion) int32 { return r.XMLID })

	rows := make([][]any, 0, len(religions))
	for _, r := range religions {
		dbID := m.Map(KindReligion, r.XMLID)
		rows = append(rows, []any{
			dbID, matchID, r.XMLID, r.Name, r.FoundedTurn,
			m.LookupOpt(KindPlayer, r.FounderPlayerXMLID),
			m.LookupOpt(KindCharacter, r.HeadCharacterXMLID),
			m.LookupOpt(KindCity, r.HolyCityXMLID),
		})
	}
	return bulkInsert(tx, "religions", religionColumns, rows)
}

var tribeColumns = []string{
	"tribe_id", "match_id", "xml_id", "tribe_name", "leader_character_id",
	"allied_player_id", "religion",
}

func insertTribes(tx *sqlx.Tx, m *IDMap, matchID int64, tribes []save.Tribe) error {
	tribes = dedupeLastWins(tribes, func(t save.Tribe) int32 { return t.XMLID })

	rows := make([][]any, 0, len(tribes))
	for _, t := range tribes {
		dbID := m.Map(KindTribe, t.XMLID)
		rows = append(rows, []any{
			dbID, matchID, t.XMLID, t.IDString,
			m.LookupOpt(KindCharacter, t.LeaderCharacterXMLID),
			m.LookupOpt(KindPlayer, t.AlliedPlayerXMLID),
			t.Religion,
		})
	}
	return bulkInsert(tx, "tribes", tribeColumns, rows)
}
