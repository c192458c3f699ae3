// Package importer drives game archives through parsing and insertion into
// the store, one transaction per archive.
package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/becked/per-ankh-sub000/internal/archive"
	"github.com/becked/per-ankh-sub000/internal/save"
	"github.com/becked/per-ankh-sub000/internal/store"
	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// Options tune a single import.
type Options struct {
	// CollectionID assigns the match to a collection; zero means the
	// default collection.
	CollectionID int64

	// Progress receives best-effort phase records.
	Progress ProgressFunc

	Logger *slog.Logger

	// fileIndex/totalFiles are set by the batch runner.
	fileIndex  int
	totalFiles int
	runID      string
}

// Result reports one completed import.
type Result struct {
	MatchID    int64
	GameID     string
	IsNew      bool
	Skipped    bool
	TotalTurns int32
}

// Import runs one archive through all phases. The same game serializes
// in-process; across processes the match_locks row arbitrates. Any error
// after setup rolls the whole transaction back.
func Import(ctx context.Context, st *store.Store, path string, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.runID == "" {
		opts.runID = uuid.NewString()
	}
	if opts.totalFiles == 0 {
		opts.totalFiles = 1
	}
	rep := newReporter(opts.Progress, opts.runID, filepath.Base(path), opts.fileIndex, opts.totalFiles)

	// Phase 0: extract, parse the document, read metadata.
	xml, err := archive.ExtractXML(path)
	if err != nil {
		return nil, err
	}
	hash, err := archive.HashFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := xmltree.Parse(xml)
	if err != nil {
		return nil, err
	}
	match, err := save.ParseMatch(doc)
	if err != nil {
		return nil, err
	}
	log = log.With("game_id", match.GameID, "turn", match.TotalTurns)

	mu := lockGame(match.GameID)
	defer mu.Unlock()

	tx, err := st.DB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := acquireMatchLock(tx, match.GameID); err != nil {
		return nil, err
	}

	var matchID int64
	var storedTurns int32
	isNew := false
	err = tx.QueryRowx("SELECT match_id, total_turns FROM matches WHERE game_id = ?", match.GameID).
		Scan(&matchID, &storedTurns)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		isNew = true
		if err := tx.Get(&matchID, "SELECT COALESCE(MAX(match_id), 0) + 1 FROM matches"); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case match.TotalTurns <= storedTurns:
		// Same save or an older one: nothing to do.
		if err := releaseMatchLock(tx, match.GameID); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		log.Info("import skipped, match is current", "stored_turns", storedTurns)
		return &Result{MatchID: matchID, GameID: match.GameID, Skipped: true, TotalTurns: storedTurns}, nil
	default:
		// Re-import with more turns: keep the match row and the identity
		// map, rebuild everything derived from the save.
		log.Info("re-importing match with newer save", "stored_turns", storedTurns)
		for _, table := range store.MatchChildTables {
			if table == "id_mappings" {
				continue
			}
			if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_id = ?", matchID); err != nil {
				return nil, fmt.Errorf("clear %s: %w", table, err)
			}
		}
	}

	if err := upsertMatch(tx, matchID, path, hash, match, opts.CollectionID); err != nil {
		return nil, err
	}

	idmap, err := NewIDMap(tx, matchID)
	if err != nil {
		return nil, err
	}
	rep.phase(0)

	// Phase 1: foundation parse, fanned out.
	var players []save.Player
	var chars []save.Character
	var cities []save.City
	var tiles []save.Tile

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) { players, err = save.ParsePlayers(doc); return })
	g.Go(func() (err error) { chars, err = save.ParseCharacters(doc); return })
	g.Go(func() (err error) { cities, err = save.ParseCities(doc); return })
	g.Go(func() (err error) { tiles, err = save.ParseTiles(doc); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	rep.phase(1)

	// Register every foundation id before inserting, so cross references
	// resolve regardless of insertion order.
	for _, p := range players {
		idmap.Map(KindPlayer, p.XMLID)
	}
	for _, c := range chars {
		idmap.Map(KindCharacter, c.XMLID)
	}
	for _, c := range cities {
		idmap.Map(KindCity, c.XMLID)
	}
	for _, t := range tiles {
		idmap.Map(KindTile, t.XMLID)
	}

	// Phase 2: foundation insert, strictly sequential. The parent patch
	// must land before any table referencing characters.
	steps := []func() error{
		func() error { return insertPlayers(tx, idmap, matchID, players) },
		func() error { return applyWinnerPatch(tx, idmap, matchID, match, players) },
		func() error { return insertCharacters(tx, idmap, matchID, chars) },
		func() error { return patchCharacterParents(tx, idmap, matchID, chars) },
		func() error { return insertTiles(tx, idmap, matchID, tiles) },
		func() error { return insertCities(tx, idmap, matchID, cities) },
		func() error { return patchTileOwnerCities(tx, idmap, matchID, tiles) },
		func() error { return insertOwnershipHistory(tx, idmap, matchID, tiles) },
		func() error { return patchCharacterBirthCities(tx, idmap, matchID, chars) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	rep.phase(2)

	// Phase 3: affiliation parse.
	var families []save.Family
	var religions []save.Religion
	var tribes []save.Tribe

	g, _ = errgroup.WithContext(ctx)
	g.Go(func() (err error) { families, err = save.ParseFamilies(doc); return })
	g.Go(func() (err error) { religions, err = save.ParseReligions(doc); return })
	g.Go(func() (err error) { tribes, err = save.ParseTribes(doc); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	rep.phase(3)

	// Phase 4: affiliation insert.
	if err := insertTribes(tx, idmap, matchID, tribes); err != nil {
		return nil, err
	}
	if err := insertFamilies(tx, idmap, matchID, families); err != nil {
		return nil, err
	}
	if err := insertReligions(tx, idmap, matchID, religions); err != nil {
		return nil, err
	}
	rep.phase(4)

	// Phase 5: unit production.
	playerUnits, err := save.ParsePlayerUnitsProduced(doc)
	if err != nil {
		return nil, err
	}
	cityUnits, err := save.ParseCityUnitsProduced(doc)
	if err != nil {
		return nil, err
	}
	if err := insertUnitProduction(tx, idmap, matchID, playerUnits, cityUnits); err != nil {
		return nil, err
	}
	rep.phase(5)

	// Phase 6: per-player gameplay, event logs and memories.
	gameplay, err := save.ParsePlayerGameplay(doc)
	if err != nil {
		return nil, err
	}
	if err := insertPlayerGameplay(tx, idmap, matchID, gameplay); err != nil {
		return nil, err
	}
	stories, logs, memories, err := save.ParseEvents(doc)
	if err != nil {
		return nil, err
	}
	if err := insertEvents(tx, idmap, matchID, nil, logs, memories); err != nil {
		return nil, err
	}
	rep.phase(6)

	// Phase 7: diplomacy.
	edges, err := save.ParseDiplomacy(doc)
	if err != nil {
		return nil, err
	}
	if err := insertDiplomacy(tx, matchID, edges); err != nil {
		return nil, err
	}
	rep.phase(7)

	// Phase 8: time series.
	series, err := save.ParseTimeseries(doc)
	if err != nil {
		return nil, err
	}
	if err := insertTimeseries(tx, idmap, matchID, series); err != nil {
		return nil, err
	}
	rep.phase(8)

	// Phase 9: character extended.
	charExt, err := save.ParseCharacterExtended(doc)
	if err != nil {
		return nil, err
	}
	if err := insertCharacterExtended(tx, idmap, matchID, charExt); err != nil {
		return nil, err
	}
	rep.phase(9)

	// Phase 10: city extended.
	cityExt, err := save.ParseCityExtended(doc)
	if err != nil {
		return nil, err
	}
	if err := insertCityExtended(tx, idmap, matchID, cityExt); err != nil {
		return nil, err
	}
	rep.phase(10)

	// Phase 11: tile extended.
	tileExt, err := save.ParseTileExtended(doc)
	if err != nil {
		return nil, err
	}
	if err := insertTileExtended(tx, idmap, matchID, tileExt); err != nil {
		return nil, err
	}
	rep.phase(11)

	// Phase 12: story events.
	if err := insertEvents(tx, idmap, matchID, stories, nil, nil); err != nil {
		return nil, err
	}
	rep.phase(12)

	// Phase 13: finalize.
	if err := idmap.Persist(tx); err != nil {
		return nil, err
	}
	if err := releaseMatchLock(tx, match.GameID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	rep.phase(13)

	log.Info("import complete",
		"match_id", matchID, "is_new", isNew,
		"players", len(players), "characters", len(chars),
		"cities", len(cities), "tiles", len(tiles))

	return &Result{
		MatchID:    matchID,
		GameID:     match.GameID,
		IsNew:      isNew,
		TotalTurns: match.TotalTurns,
	}, nil
}

func upsertMatch(tx *sqlx.Tx, matchID int64, path, hash string, match *save.Match, collectionID int64) error {
	if collectionID == 0 {
		collectionID = 1
	}
	_, err := tx.Exec(`
		INSERT INTO matches (match_id, game_id, file_name, file_hash, game_name,
			total_turns, map_width, map_height, game_mode, turn_style,
			difficulty, map_seed, game_seed, version, version_build,
			save_date, collection_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id) DO UPDATE SET
			file_name = excluded.file_name,
			file_hash = excluded.file_hash,
			game_name = excluded.game_name,
			total_turns = excluded.total_turns,
			map_width = excluded.map_width,
			map_height = excluded.map_height,
			game_mode = excluded.game_mode,
			turn_style = excluded.turn_style,
			difficulty = excluded.difficulty,
			map_seed = excluded.map_seed,
			game_seed = excluded.game_seed,
			version = excluded.version,
			version_build = excluded.version_build,
			save_date = excluded.save_date,
			processed_date = datetime('now')`,
		matchID, match.GameID, filepath.Base(path), hash, match.GameName,
		match.TotalTurns, match.MapWidth, match.MapHeight, match.GameMode,
		match.TurnStyle, match.Difficulty, match.MapSeed, match.GameSeed,
		match.Version, match.VersionBuild, match.SaveDate, collectionID)
	return err
}
