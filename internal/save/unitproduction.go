package save

import (
	"log/slog"
	"strconv"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// ParsePlayerUnitsProduced reads each player's lifetime unit production
// counts from Player/UnitsProduced.
func ParsePlayerUnitsProduced(doc *xmltree.Document) ([]PlayerUnitsProduced, error) {
	var records []PlayerUnitsProduced
	for _, player := range doc.Root().ChildrenNamed("Player") {
		playerID, err := player.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		container := player.Child("UnitsProduced")
		if container == nil {
			continue
		}
		for _, unit := range container.Children {
			count, err := strconv.ParseInt(unit.Text, 10, 32)
			if err != nil {
				continue
			}
			records = append(records, PlayerUnitsProduced{
				PlayerXMLID: playerID,
				UnitType:    unit.Tag,
				Count:       int32(count),
			})
		}
	}
	slog.Debug("parsed player unit production", "count", len(records))
	return records, nil
}

// ParseCityUnitsProduced reads per-city unit production counts from
// City/UnitProductionCounts.
func ParseCityUnitsProduced(doc *xmltree.Document) ([]CityUnitsProduced, error) {
	var records []CityUnitsProduced
	for _, city := range doc.Root().ChildrenNamed("City") {
		cityID, err := city.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		container := city.Child("UnitProductionCounts")
		if container == nil {
			continue
		}
		for _, unit := range container.Children {
			count, err := strconv.ParseInt(unit.Text, 10, 32)
			if err != nil {
				continue
			}
			records = append(records, CityUnitsProduced{
				CityXMLID: cityID,
				UnitType:  unit.Tag,
				Count:     int32(count),
			})
		}
	}
	slog.Debug("parsed city unit production", "count", len(records))
	return records, nil
}
