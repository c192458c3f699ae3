package save

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

func TestParseTilesCoordinates(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g" MapWidth="10" Turn="1">
		<Tile ID="23"><Terrain>TERRAIN_DESERT</Terrain></Tile>
	</Root>`)

	tiles, err := ParseTiles(doc)
	require.NoError(t, err)
	require.Len(t, tiles, 1)
	assert.Equal(t, int32(3), tiles[0].X)
	assert.Equal(t, int32(2), tiles[0].Y)
	assert.Equal(t, "TERRAIN_DESERT", *tiles[0].Terrain)
}

func TestParseTilesZeroMapWidth(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g" MapWidth="0">
		<Tile ID="0"/>
	</Root>`)

	_, err := ParseTiles(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, xmltree.ErrInvalidFormat)
	assert.Contains(t, err.Error(), "MapWidth")
}

func TestParseTilesOwnerFromHistory(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g" MapWidth="10">
		<Tile ID="0">
			<OwnerHistory><T3>0</T3><T9>1</T9><T6>0</T6></OwnerHistory>
		</Tile>
		<Tile ID="1">
			<OwnerHistory><T3>0</T3><T9>-1</T9></OwnerHistory>
		</Tile>
		<Tile ID="2"/>
	</Root>`)

	tiles, err := ParseTiles(doc)
	require.NoError(t, err)
	require.Len(t, tiles, 3)

	// Greatest turn wins.
	assert.Equal(t, int32(1), *tiles[0].OwnerPlayerXMLID)
	require.Len(t, tiles[0].OwnerHistory, 3)
	assert.Equal(t, int32(3), tiles[0].OwnerHistory[0].Turn)

	// Negative owner at the latest turn means currently unowned.
	assert.Nil(t, tiles[1].OwnerPlayerXMLID)
	assert.Nil(t, tiles[2].OwnerPlayerXMLID)
}

func TestParseTilesRoadAndRivers(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g" MapWidth="5">
		<Tile ID="0">
			<RiverW>true</RiverW>
			<RiverSE>true</RiverSE>
			<Improvement>IMPROVEMENT_FARM</Improvement>
			<Road/>
		</Tile>
	</Root>`)

	tiles, err := ParseTiles(doc)
	require.NoError(t, err)
	assert.True(t, tiles[0].RiverW)
	assert.False(t, tiles[0].RiverSW)
	assert.True(t, tiles[0].RiverSE)
	assert.True(t, tiles[0].HasRoad)
	assert.Equal(t, "IMPROVEMENT_FARM", *tiles[0].Improvement)
}

func TestParseTileExtended(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g" MapWidth="5">
		<Tile ID="4">
			<RevealedTurn><TEAM_0>3</TEAM_0><TEAM_1>8</TEAM_1></RevealedTurn>
			<RevealedOwner><TEAM_0>1</TEAM_0><TEAM_1>-1</TEAM_1></RevealedOwner>
			<TerrainHistory><T5>TERRAIN_SCRUB</T5></TerrainHistory>
			<VegetationHistory><T2>VEGETATION_TREES</T2></VegetationHistory>
		</Tile>
	</Root>`)

	ext, err := ParseTileExtended(doc)
	require.NoError(t, err)

	require.Len(t, ext.Visibility, 2)
	assert.Equal(t, int32(3), ext.Visibility[0].RevealedTurn)
	assert.Equal(t, int32(1), *ext.Visibility[0].VisibleOwnerXMLID)
	assert.Nil(t, ext.Visibility[1].VisibleOwnerXMLID)

	require.Len(t, ext.Changes, 2)
	assert.Equal(t, "terrain", ext.Changes[0].ChangeType)
	assert.Equal(t, "TERRAIN_SCRUB", ext.Changes[0].NewValue)
	assert.Equal(t, "vegetation", ext.Changes[1].ChangeType)
}
