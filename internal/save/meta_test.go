package save

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatch(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="abc-123" Turn="57" MapWidth="74" MapHeight="48"
		GameName="My Campaign" Difficulty="DIFFICULTY_GLORIOUS"
		MapSeed="123456789" GameSeed="987654321"
		Version="Version: 1.0.71580 +DLC_HEROES =c0ffee" SaveDate="2 March 2025"/>`)

	m, err := ParseMatch(doc)
	require.NoError(t, err)

	assert.Equal(t, "abc-123", m.GameID)
	assert.Equal(t, int32(57), m.TotalTurns)
	assert.Equal(t, int32(74), m.MapWidth)
	assert.Equal(t, int32(48), m.MapHeight)
	assert.Equal(t, "My Campaign", *m.GameName)
	assert.Equal(t, "DIFFICULTY_GLORIOUS", *m.Difficulty)
	assert.Equal(t, int64(123456789), *m.MapSeed)
	assert.Equal(t, int32(71580), *m.VersionBuild)
	assert.Equal(t, "2025-03-02", *m.SaveDate)
}

func TestParseMatchTurnFromGameElement(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g1" MapWidth="10">
		<Game><Turn>0</Turn></Game>
	</Root>`)

	m, err := ParseMatch(doc)
	require.NoError(t, err)
	assert.Equal(t, int32(0), m.TotalTurns)

	// Game element overrides a stale Root attribute.
	doc = parseDoc(t, `<Root GameId="g1" Turn="5" MapWidth="10">
		<Game><Turn>9</Turn></Game>
	</Root>`)
	m, err = ParseMatch(doc)
	require.NoError(t, err)
	assert.Equal(t, int32(9), m.TotalTurns)
}

func TestParseMatchMissingTurn(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g1" MapWidth="10"/>`)
	_, err := ParseMatch(doc)
	assert.Error(t, err)
}

func TestParseMatchMissingGameID(t *testing.T) {
	doc := parseDoc(t, `<Root Turn="3" MapWidth="10"/>`)
	_, err := ParseMatch(doc)
	assert.Error(t, err)
}

func TestParseMatchWinnerHints(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g" Turn="80" MapWidth="10">
		<Game Victor="2">
			<TeamVictories><VICTORY_AMBITION>77</VICTORY_AMBITION></TeamVictories>
		</Game>
	</Root>`)

	m, err := ParseMatch(doc)
	require.NoError(t, err)
	assert.Equal(t, int32(2), *m.Winner.VictorPlayerXMLID)
	assert.True(t, m.Winner.HasTeamVictory)
	assert.Equal(t, "VICTORY_AMBITION", *m.Winner.VictoryType)
}

func TestParseVersionBuild(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int32
		ok   bool
	}{
		{"Version: 1.0.71580 +DLC_HEROES =c0ffee", 71580, true},
		{"Version: 1.0.58524 =abc", 58524, true},
		{"1.0.12345", 12345, true},
		{"Version: garbage", 0, false},
	} {
		got, ok := ParseVersionBuild(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if ok {
			assert.Equal(t, tc.want, got, tc.in)
		}
	}
}

func TestParseSaveDate(t *testing.T) {
	iso, err := ParseSaveDate("2 March 2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", iso)

	iso, err = ParseSaveDate("14 December 2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-14", iso)

	_, err = ParseSaveDate("2025-03-02")
	assert.Error(t, err)
}

func TestNormalizeSentinels(t *testing.T) {
	neg := int32(-1)
	pos := int32(5)
	empty := ""
	name := "x"

	assert.Nil(t, NormalizeID(&neg))
	assert.Equal(t, &pos, NormalizeID(&pos))
	assert.Nil(t, NormalizeID(nil))

	assert.Nil(t, NormalizeTurn(&neg))
	assert.Equal(t, &pos, NormalizeTurn(&pos))

	assert.Nil(t, NormalizeString(&empty))
	assert.Equal(t, &name, NormalizeString(&name))
}
