package save

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeseriesFlat(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="A">
			<PointsHistory><T0>10</T0><T5>25</T5></PointsHistory>
			<MilitaryPowerHistory><T2>100</T2></MilitaryPowerHistory>
			<LegitimacyHistory><T1>50</T1></LegitimacyHistory>
		</Player>
	</Root>`)

	ts, err := ParseTimeseries(doc)
	require.NoError(t, err)

	require.Len(t, ts.Points, 2)
	assert.Equal(t, int32(0), ts.Points[0].Turn)
	assert.Equal(t, int32(10), ts.Points[0].Value)
	assert.Equal(t, int32(5), ts.Points[1].Turn)

	require.Len(t, ts.MilitaryPower, 1)
	require.Len(t, ts.Legitimacy, 1)
}

func TestParseTimeseriesByCategory(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="A">
			<FamilyOpinionHistory>
				<FAMILY_JULII><T0>40</T0><T7>55</T7></FAMILY_JULII>
			</FamilyOpinionHistory>
			<YieldRateHistory>
				<YIELD_FOOD><T0>12</T0></YIELD_FOOD>
			</YieldRateHistory>
		</Player>
		<Game>
			<YieldPriceHistory>
				<YIELD_WOOD><T3>9</T3></YIELD_WOOD>
			</YieldPriceHistory>
		</Game>
	</Root>`)

	ts, err := ParseTimeseries(doc)
	require.NoError(t, err)

	require.Len(t, ts.FamilyOpinion, 2)
	assert.Equal(t, "FAMILY_JULII", ts.FamilyOpinion[0].Category)

	require.Len(t, ts.YieldRates, 1)
	assert.Equal(t, "YIELD_FOOD", ts.YieldRates[0].Category)

	require.Len(t, ts.YieldPrices, 1)
	assert.Equal(t, "YIELD_WOOD", ts.YieldPrices[0].Yield)
	assert.Equal(t, int32(3), ts.YieldPrices[0].Turn)
	assert.Equal(t, int32(9), ts.YieldPrices[0].Price)
}

func TestSparseTurnValuesSkipsJunk(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="A">
			<PointsHistory><T0>1</T0><NotATurn>9</NotATurn><T2>bad</T2><T1>3</T1></PointsHistory>
		</Player>
	</Root>`)

	samples := sparseTurnValues(doc.Root().Child("Player"), "PointsHistory")
	require.Len(t, samples, 2)
	assert.Equal(t, int32(0), samples[0].Turn)
	assert.Equal(t, int32(1), samples[1].Turn)
}
