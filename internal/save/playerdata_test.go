package save

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlayerGameplay(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="A">
			<YieldStockpile>
				<YIELD_CIVICS>15595</YIELD_CIVICS>
				<YIELD_TRAINING>4874</YIELD_TRAINING>
			</YieldStockpile>
			<TechProgress><TECH_IRONWORKING>1001</TECH_IRONWORKING></TechProgress>
			<TechCount>
				<TECH_IRONWORKING>1</TECH_IRONWORKING>
				<TECH_SAILING>0</TECH_SAILING>
			</TechCount>
			<TechAvailable><TECH_FORESTRY/><TECH_SAILING/></TechAvailable>
			<TechPassed><TECH_MINING/></TechPassed>
			<CouncilCharacter><COUNCIL_CHANCELLOR>5</COUNCIL_CHANCELLOR></CouncilCharacter>
			<ActiveLaw><LAWCLASS_ORDER>LAW_PRIMOGENITURE</LAWCLASS_ORDER></ActiveLaw>
			<GoalList>
				<GoalData>
					<Type>GOAL_SIX_TECHS</Type>
					<ID>0</ID>
					<LeaderID>4</LeaderID>
					<Turn>37</Turn>
					<MaxTurns>20</MaxTurns>
				</GoalData>
				<GoalData>
					<Type>GOAL_CONNECTED_CITIES</Type>
					<ID>1</ID>
					<Turn>12</Turn>
					<Finished/>
				</GoalData>
			</GoalList>
		</Player>
	</Root>`)

	g, err := ParsePlayerGameplay(doc)
	require.NoError(t, err)

	require.Len(t, g.Resources, 2)
	assert.Equal(t, "YIELD_CIVICS", g.Resources[0].Resource)
	assert.Equal(t, int32(15595), g.Resources[0].Amount)

	require.Len(t, g.TechProgress, 1)

	// Zero counts are not completions.
	require.Len(t, g.TechCompleted, 1)
	assert.Equal(t, "TECH_IRONWORKING", g.TechCompleted[0].Tech)

	require.Len(t, g.TechStates, 3)
	assert.Equal(t, "available", g.TechStates[0].State)
	assert.Equal(t, "passed", g.TechStates[2].State)

	require.Len(t, g.Council, 1)
	assert.Equal(t, "COUNCIL_CHANCELLOR", g.Council[0].Position)
	assert.Equal(t, int32(5), g.Council[0].CharacterXMLID)

	require.Len(t, g.Laws, 1)
	assert.Equal(t, "LAWCLASS_ORDER", g.Laws[0].LawClass)
	assert.Equal(t, "LAW_PRIMOGENITURE", g.Laws[0].Law)

	require.Len(t, g.Goals, 2)
	assert.Equal(t, int32(37), g.Goals[0].StartedTurn)
	assert.Equal(t, int32(20), *g.Goals[0].MaxTurns)
	assert.False(t, g.Goals[0].Finished)
	assert.True(t, g.Goals[1].Finished)
}

func TestParseDiplomacy(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Game>
			<TribeDiplomacy>
				<TRIBE_REBELS.0>DIPLOMACY_WAR</TRIBE_REBELS.0>
				<BadKey>DIPLOMACY_WAR</BadKey>
			</TribeDiplomacy>
			<TeamDiplomacy>
				<T.0.1>DIPLOMACY_TRUCE</T.0.1>
			</TeamDiplomacy>
		</Game>
	</Root>`)

	edges, err := ParseDiplomacy(doc)
	require.NoError(t, err)
	require.Len(t, edges, 2)

	assert.Equal(t, "tribe", edges[0].Entity1Type)
	assert.Equal(t, "TRIBE_REBELS", edges[0].Entity1ID)
	assert.Equal(t, "player", edges[0].Entity2Type)
	assert.Equal(t, "0", edges[0].Entity2ID)
	assert.Equal(t, "DIPLOMACY_WAR", edges[0].Relation)

	assert.Equal(t, "player", edges[1].Entity1Type)
	assert.Equal(t, "0", edges[1].Entity1ID)
	assert.Equal(t, "1", edges[1].Entity2ID)
}

func TestParseUnitProduction(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="A">
			<UnitsProduced><UNIT_SETTLER>6</UNIT_SETTLER><UNIT_WORKER>7</UNIT_WORKER></UnitsProduced>
		</Player>
		<City ID="5" Player="0" TileID="100" Founded="1">
			<UnitProductionCounts><UNIT_SETTLER>4</UNIT_SETTLER></UnitProductionCounts>
		</City>
	</Root>`)

	players, err := ParsePlayerUnitsProduced(doc)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, int32(6), players[0].Count)

	cities, err := ParseCityUnitsProduced(doc)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, int32(5), cities[0].CityXMLID)
	assert.Equal(t, "UNIT_SETTLER", cities[0].UnitType)
}
