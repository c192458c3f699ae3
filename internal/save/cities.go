package save

import (
	"log/slog"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// ParseCities reads all City elements under Root.
func ParseCities(doc *xmltree.Document) ([]City, error) {
	var cities []City
	for _, node := range doc.Root().ChildrenNamed("City") {
		xmlID, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		playerID, err := node.ReqAttrInt("Player")
		if err != nil {
			return nil, err
		}
		tileID, err := node.ReqAttrInt("TileID")
		if err != nil {
			return nil, err
		}
		founded, err := node.ReqAttrInt("Founded")
		if err != nil {
			return nil, err
		}

		// Older saves use NameType, newer ones Name.
		name, ok := node.OptChildText("NameType")
		if !ok {
			name, ok = node.OptChildText("Name")
		}
		if !ok {
			name = "Unknown City"
		}

		c := City{
			XMLID:            xmlID,
			Name:             name,
			PlayerXMLID:      NormalizeID(&playerID),
			FirstPlayerXMLID: NormalizeID(node.OptChildInt("FirstPlayer")),
			LastPlayerXMLID:  NormalizeID(node.OptChildInt("LastPlayer")),
			TileXMLID:        tileID,
			Family:           optString(node.OptAttr("Family")),
			FoundedTurn:      founded,
			IsCapital:        node.Child("Capital") != nil,
			Citizens:         1,
			GovernorXMLID:    NormalizeID(node.OptChildInt("GovernorID")),
			GovernorTurn:     NormalizeTurn(node.OptChildInt("GovernorTurn")),
		}
		if v := node.OptChildInt("Citizens"); v != nil {
			c.Citizens = *v
		}
		if v := node.OptChildInt("HurryCivicsCount"); v != nil {
			c.HurryCivicsCount = *v
		}
		if v := node.OptChildInt("HurryMoneyCount"); v != nil {
			c.HurryMoneyCount = *v
		}
		if v := node.OptChildInt("HurryPopulationCount"); v != nil {
			c.HurryPopulationCount = *v
		}
		if v := node.OptChildInt("HurryTrainingCount"); v != nil {
			c.HurryTrainingCount = *v
		}
		if v := node.OptChildInt("SpecialistProducedCount"); v != nil {
			c.SpecialistCount = *v
		}
		if v := node.OptChildInt("GrowthCount"); v != nil {
			c.GrowthCount = *v
		}
		if v := node.OptChildInt("UnitProductionCount"); v != nil {
			c.UnitProductionCount = *v
		}
		if v := node.OptChildInt("BuyTileCount"); v != nil {
			c.BuyTileCount = *v
		}
		cities = append(cities, c)
	}
	slog.Debug("parsed cities", "count", len(cities))
	return cities, nil
}
