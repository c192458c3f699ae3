package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := openTestStore(t)

	var n int64
	require.NoError(t, s.db.Get(&n, "SELECT COUNT(*) FROM matches"))
	assert.Equal(t, int64(0), n)

	// Default collection is seeded.
	require.NoError(t, s.db.Get(&n, "SELECT COUNT(*) FROM collections WHERE is_default = 1"))
	assert.Equal(t, int64(1), n)
}

func TestOpenDropsPartialIndexes(t *testing.T) {
	s := openTestStore(t)

	var names []string
	require.NoError(t, s.db.Select(&names,
		"SELECT name FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_%'"))

	assert.Contains(t, names, "idx_matches_game_id")
	assert.Contains(t, names, "idx_players_xml_id")
	assert.NotContains(t, names, "idx_characters_living")
	assert.NotContains(t, names, "idx_tiles_owned")
	assert.NotContains(t, names, "idx_cities_capital")
}

func TestOpenCreatesViews(t *testing.T) {
	s := openTestStore(t)

	var views []string
	require.NoError(t, s.db.Select(&views, "SELECT name FROM sqlite_master WHERE type = 'view'"))
	assert.ElementsMatch(t, []string{"match_summary", "rulers", "tile_current_owners"}, views)
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s1, err := Open(path, nil)
	require.NoError(t, err)
	_, err = s1.db.Exec(
		"INSERT INTO matches (match_id, game_id, file_name, file_hash, total_turns) VALUES (1, 'g', 'f.zip', 'h', 50)")
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path, nil)
	require.NoError(t, err)
	defer s2.Close()

	var n int64
	require.NoError(t, s2.db.Get(&n, "SELECT COUNT(*) FROM matches"))
	assert.Equal(t, int64(1), n)
}

func TestUniqueGameID(t *testing.T) {
	s := openTestStore(t)

	_, err := s.db.Exec(
		"INSERT INTO matches (match_id, game_id, file_name, file_hash, total_turns) VALUES (1, 'g', 'a.zip', 'h1', 50)")
	require.NoError(t, err)
	_, err = s.db.Exec(
		"INSERT INTO matches (match_id, game_id, file_name, file_hash, total_turns) VALUES (2, 'g', 'b.zip', 'h2', 60)")
	assert.Error(t, err)
}

func TestSchemaObjects(t *testing.T) {
	tables, views := schemaObjects()

	assert.GreaterOrEqual(t, len(tables), 40)
	assert.Len(t, views, 3)
	assert.Equal(t, "collections", tables[0])
	assert.Contains(t, tables, "matches")
	assert.Contains(t, tables, "yield_price_history")
}

func TestSchemaHasNoForeignKeys(t *testing.T) {
	assert.NotContains(t, schemaSQL, "FOREIGN KEY")
}

func TestReset(t *testing.T) {
	s := openTestStore(t)

	_, err := s.db.Exec(
		"INSERT INTO matches (match_id, game_id, file_name, file_hash, total_turns) VALUES (1, 'g', 'f.zip', 'h', 50)")
	require.NoError(t, err)
	_, err = s.db.Exec("INSERT INTO players (player_id, match_id, xml_id, player_name) VALUES (1, 1, 0, 'A')")
	require.NoError(t, err)

	require.NoError(t, s.Reset())

	var n int64
	require.NoError(t, s.db.Get(&n, "SELECT COUNT(*) FROM matches"))
	assert.Equal(t, int64(0), n)
	require.NoError(t, s.db.Get(&n, "SELECT COUNT(*) FROM players"))
	assert.Equal(t, int64(0), n)

	// Default collection is reseeded.
	require.NoError(t, s.db.Get(&n, "SELECT COUNT(*) FROM collections"))
	assert.Equal(t, int64(1), n)
}

func TestValidateSchemaFlagsMissingTable(t *testing.T) {
	s := openTestStore(t)

	_, err := s.db.Exec("DROP TABLE tribes")
	require.NoError(t, err)

	warnings := s.validateSchema()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "tribes")
}
