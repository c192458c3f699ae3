package save

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// TileExtended bundles per-tile visibility and change history. Ownership
// history stays on the Tile record itself.
type TileExtended struct {
	Visibility []TileVisibility
	Changes    []TileChange
}

// ParseTileExtended reads RevealedTurn/RevealedOwner and the terrain and
// vegetation histories nested under each Tile element.
func ParseTileExtended(doc *xmltree.Document) (*TileExtended, error) {
	out := &TileExtended{}
	for _, tile := range doc.Root().ChildrenNamed("Tile") {
		tileID, err := tile.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}

		revealedOwners := teamPrefixKeyed(tile, "RevealedOwner")
		if node := tile.Child("RevealedTurn"); node != nil {
			for _, teamNode := range node.Children {
				teamStr, ok := strings.CutPrefix(teamNode.Tag, "TEAM_")
				if !ok {
					continue
				}
				team, err := strconv.ParseInt(teamStr, 10, 32)
				if err != nil {
					continue
				}
				turn, err := strconv.ParseInt(teamNode.Text, 10, 32)
				if err != nil {
					continue
				}
				v := TileVisibility{
					TileXMLID:    tileID,
					Team:         int32(team),
					RevealedTurn: int32(turn),
				}
				if owner, ok := revealedOwners[int32(team)]; ok {
					id := owner
					v.VisibleOwnerXMLID = NormalizeID(&id)
				}
				out.Visibility = append(out.Visibility, v)
			}
		}

		for _, tv := range tileHistory(tile, "TerrainHistory") {
			out.Changes = append(out.Changes, TileChange{
				TileXMLID: tileID, Turn: tv.turn, ChangeType: "terrain", NewValue: tv.value,
			})
		}
		for _, tv := range tileHistory(tile, "VegetationHistory") {
			out.Changes = append(out.Changes, TileChange{
				TileXMLID: tileID, Turn: tv.turn, ChangeType: "vegetation", NewValue: tv.value,
			})
		}
	}
	slog.Debug("parsed tile extended data",
		"visibility", len(out.Visibility), "changes", len(out.Changes))
	return out, nil
}

func teamPrefixKeyed(parent *xmltree.Node, container string) map[int32]int32 {
	out := make(map[int32]int32)
	node := parent.Child(container)
	if node == nil {
		return out
	}
	for _, c := range node.Children {
		teamStr, ok := strings.CutPrefix(c.Tag, "TEAM_")
		if !ok {
			continue
		}
		team, err := strconv.ParseInt(teamStr, 10, 32)
		if err != nil {
			continue
		}
		v, err := strconv.ParseInt(c.Text, 10, 32)
		if err != nil {
			continue
		}
		out[int32(team)] = int32(v)
	}
	return out
}

type turnString struct {
	turn  int32
	value string
}

// tileHistory reads a sparse T<n> container whose values are strings rather
// than ints.
func tileHistory(tile *xmltree.Node, container string) []turnString {
	node := tile.Child(container)
	if node == nil {
		return nil
	}
	var out []turnString
	for _, c := range node.Children {
		turn, ok := parseTurnTag(c.Tag)
		if !ok || c.Text == "" {
			continue
		}
		out = append(out, turnString{turn: turn, value: c.Text})
	}
	return out
}
