package save

import (
	"log/slog"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// ParseTimeseries reads all eight sparse histories: seven per-player series
// and the game-level yield price history. Samples exist only for turns where
// the value changed; readers forward-fill on the way out of the store.
func ParseTimeseries(doc *xmltree.Document) (*Timeseries, error) {
	root := doc.Root()
	ts := &Timeseries{}

	for _, player := range root.ChildrenNamed("Player") {
		playerID, err := player.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}

		for _, tv := range sparseTurnValues(player, "PointsHistory") {
			ts.Points = append(ts.Points, PlayerSeriesPoint{PlayerXMLID: playerID, Turn: tv.Turn, Value: tv.Value})
		}
		for _, tv := range sparseTurnValues(player, "MilitaryPowerHistory") {
			ts.MilitaryPower = append(ts.MilitaryPower, PlayerSeriesPoint{PlayerXMLID: playerID, Turn: tv.Turn, Value: tv.Value})
		}
		for _, tv := range sparseTurnValues(player, "LegitimacyHistory") {
			ts.Legitimacy = append(ts.Legitimacy, PlayerSeriesPoint{PlayerXMLID: playerID, Turn: tv.Turn, Value: tv.Value})
		}

		appendCategorized(&ts.FamilyOpinion, player, "FamilyOpinionHistory", playerID)
		appendCategorized(&ts.ReligionOpinion, player, "ReligionOpinionHistory", playerID)
		appendCategorized(&ts.YieldRates, player, "YieldRateHistory", playerID)
		// YieldTotalHistory exists from build 81366 on; absent before that.
		appendCategorized(&ts.YieldTotals, player, "YieldTotalHistory", playerID)
	}

	if game := root.Child("Game"); game != nil {
		for category, samples := range sparseByCategory(game, "YieldPriceHistory") {
			for _, tv := range samples {
				ts.YieldPrices = append(ts.YieldPrices, PriceSeriesPoint{
					Yield: category, Turn: tv.Turn, Price: tv.Value,
				})
			}
		}
	}

	slog.Debug("parsed time series",
		"points", len(ts.Points),
		"military", len(ts.MilitaryPower),
		"legitimacy", len(ts.Legitimacy),
		"family_opinion", len(ts.FamilyOpinion),
		"religion_opinion", len(ts.ReligionOpinion),
		"yield_rates", len(ts.YieldRates),
		"yield_totals", len(ts.YieldTotals),
		"yield_prices", len(ts.YieldPrices))
	return ts, nil
}

func appendCategorized(dst *[]CategorySeriesPoint, parent *xmltree.Node, container string, playerID int32) {
	for category, samples := range sparseByCategory(parent, container) {
		for _, tv := range samples {
			*dst = append(*dst, CategorySeriesPoint{
				PlayerXMLID: playerID, Category: category, Turn: tv.Turn, Value: tv.Value,
			})
		}
	}
}
