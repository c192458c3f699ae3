package integration

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "perankh-integration")
	if err != nil {
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	buildBinary(dir)
	os.Exit(m.Run())
}

// writeSaveZip writes a minimal but importable save archive.
func writeSaveZip(t *testing.T, dir, name, gameID string, turn int) string {
	t.Helper()
	xml := fmt.Sprintf(`<Root GameId=%q Turn="%d" MapWidth="2" MapHeight="2"
	GameName="Integration Game" Player="0" Difficulty="DIFFICULTY_GOOD"
	Version="Version: 1.0.71580 =abc" SaveDate="2 March 2025">
	<Player ID="0" Name="Alice" Nation="NATION_ROME" OnlineID="steam:1" Team="0"/>
	<Player ID="1" Name="Bob" Nation="NATION_GREECE" Team="1" AIControlledToTurn="99"/>
	<Character ID="10" BirthTurn="0" Player="0" FirstName="Romulus" Gender="GENDER_MALE"/>
	<City ID="100" Player="0" TileID="1" Founded="1" NameType="CITYNAME_ROMA"><Capital/></City>
	<Tile ID="0"><Terrain>TERRAIN_LUSH</Terrain></Tile>
	<Tile ID="1"><CityTerritory>100</CityTerritory><OwnerHistory><T1>0</T1></OwnerHistory></Tile>
	<Game Victor="0"/>
</Root>`, gameID, turn)

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("save.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(xml))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestVersionCommand(t *testing.T) {
	dir := t.TempDir()
	res := runCLI(t, filepath.Join(dir, "config"), filepath.Join(dir, "perankh.db"), "version")
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "perankh")
}

func TestImportAndListFlow(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	dbPath := filepath.Join(dir, "perankh.db")
	save := writeSaveZip(t, dir, "game.zip", "integ-game-1", 42)

	res := runCLI(t, configDir, dbPath, "import", save)
	require.Equal(t, 0, res.ExitCode, "stderr: %s", res.Stderr)
	assert.Contains(t, res.Stdout, "1 imported")

	res = runCLI(t, configDir, dbPath, "matches")
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "Integration Game")
	assert.Contains(t, res.Stdout, "42")

	// A second import of the same save is a skip, not a failure.
	res = runCLI(t, configDir, dbPath, "import", save)
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "1 skipped")
}

func TestImportDirectory(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	dbPath := filepath.Join(dir, "perankh.db")
	saves := filepath.Join(dir, "saves")
	require.NoError(t, os.MkdirAll(saves, 0o755))
	writeSaveZip(t, saves, "a.zip", "integ-game-a", 10)
	writeSaveZip(t, saves, "b.zip", "integ-game-b", 20)

	res := runCLI(t, configDir, dbPath, "import", saves)
	require.Equal(t, 0, res.ExitCode, "stderr: %s", res.Stderr)
	assert.Contains(t, res.Stdout, "2 imported")
}

func TestCollectionsFlow(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	dbPath := filepath.Join(dir, "perankh.db")

	res := runCLI(t, configDir, dbPath, "collections", "create", "Tournament")
	require.Equal(t, 0, res.ExitCode, "stderr: %s", res.Stderr)

	res = runCLI(t, configDir, dbPath, "collections")
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "Personal")
	assert.Contains(t, res.Stdout, "Tournament")

	// Deleting the default collection is a user error.
	res = runCLI(t, configDir, dbPath, "collections", "delete", "1")
	assert.Equal(t, 1, res.ExitCode)
}

func TestResetRequiresForce(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	dbPath := filepath.Join(dir, "perankh.db")

	res := runCLI(t, configDir, dbPath, "reset")
	assert.NotEqual(t, 0, res.ExitCode)

	res = runCLI(t, configDir, dbPath, "reset", "--force")
	assert.Equal(t, 0, res.ExitCode, "stderr: %s", res.Stderr)
	assert.Contains(t, res.Stdout, "Database reset")
}

func TestImportFailureExitCode(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	dbPath := filepath.Join(dir, "perankh.db")
	junk := filepath.Join(dir, "junk.zip")
	require.NoError(t, os.WriteFile(junk, []byte("not a zip"), 0o644))

	res := runCLI(t, configDir, dbPath, "import", junk)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "1 failed")
}
