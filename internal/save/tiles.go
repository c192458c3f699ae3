package save

import (
	"fmt"
	"log/slog"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// ParseTiles reads all Tile elements under Root. Tile ids index the map row
// by row, so (x, y) falls out of the id and the map width. The full
// ownership history is retained on the record; the current owner is the
// entry with the greatest turn, negatives filtered.
func ParseTiles(doc *xmltree.Document) ([]Tile, error) {
	root := doc.Root()
	mapWidth, err := root.ReqAttrInt("MapWidth")
	if err != nil {
		return nil, err
	}
	if mapWidth <= 0 {
		return nil, fmt.Errorf("%w: Root MapWidth %d, want positive", xmltree.ErrInvalidFormat, mapWidth)
	}

	var tiles []Tile
	for _, node := range root.ChildrenNamed("Tile") {
		xmlID, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}

		t := Tile{
			XMLID: xmlID,
			X:     xmlID % mapWidth,
			Y:     xmlID / mapWidth,

			Terrain:    optString(node.OptChildText("Terrain")),
			Height:     optString(node.OptChildText("Height")),
			Vegetation: optString(node.OptChildText("Vegetation")),

			RiverW:  node.OptChildBool("RiverW"),
			RiverSW: node.OptChildBool("RiverSW"),
			RiverSE: node.OptChildBool("RiverSE"),

			Resource:             optString(node.OptChildText("Resource")),
			Improvement:          optString(node.OptChildText("Improvement")),
			ImprovementPillaged:  node.OptChildBool("ImprovementPillaged"),
			ImprovementDisabled:  node.OptChildBool("ImprovementDisabled"),
			ImprovementTurnsLeft: node.OptChildInt("ImprovementTurnsLeft"),
			Specialist:           optString(node.OptChildText("Specialist")),
			HasRoad:              node.Child("Road") != nil,
			TribeSite:            optString(node.OptChildText("TribeSite")),
			Religion:             optString(node.OptChildText("Religion")),

			CityTerritoryXMLID: NormalizeID(node.OptChildInt("CityTerritory")),

			InitSeed: node.OptChildInt64("InitSeed"),
			TurnSeed: node.OptChildInt64("TurnSeed"),
		}

		t.OwnerHistory = sparseTurnValues(node, "OwnerHistory")
		if len(t.OwnerHistory) > 0 {
			last := t.OwnerHistory[len(t.OwnerHistory)-1]
			if last.Value >= 0 {
				owner := last.Value
				t.OwnerPlayerXMLID = &owner
			}
		}

		tiles = append(tiles, t)
	}
	slog.Debug("parsed tiles", "count", len(tiles))
	return tiles, nil
}
