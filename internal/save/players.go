package save

import (
	"log/slog"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// ParsePlayers reads all Player elements under Root. Player identity lives in
// attributes; gameplay state lives in child elements.
func ParsePlayers(doc *xmltree.Document) ([]Player, error) {
	root := doc.Root()
	ownerID := NormalizeID(root.OptAttrInt("Player"))

	var players []Player
	for _, node := range root.ChildrenNamed("Player") {
		xmlID, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		name, err := node.ReqAttr("Name")
		if err != nil {
			return nil, err
		}

		p := Player{
			XMLID:   xmlID,
			Name:    name,
			Nation:  optString(node.OptAttr("Nation")),
			Dynasty: optString(node.OptAttr("Dynasty")),
			TeamID:  optString(node.OptAttr("Team")),

			OnlineID:   optString(node.OptAttr("OnlineID")),
			Email:      optString(node.OptAttr("Email")),
			Difficulty: optString(node.OptAttr("Difficulty")),

			LastTurnCompleted: node.OptChildInt("LastTurnCompleted"),
			TurnEnded:         node.OptChildBool("TurnEnded"),
			Legitimacy:        node.OptChildInt("Legitimacy"),

			SuccessionGender:         optString(node.OptChildText("SuccessionGender")),
			StateReligion:            optString(node.OptChildText("StateReligion")),
			FounderCharacterXMLID:    NormalizeID(node.OptChildInt("FounderCharacterID")),
			ChosenHeirXMLID:          NormalizeID(node.OptChildInt("ChosenHeirID")),
			OriginalCapitalCityXMLID: NormalizeID(node.OptChildInt("OriginalCapitalCityID")),

			TimeStockpile:   node.OptChildInt("TimeStockpile"),
			TechResearching: optString(node.OptChildText("TechResearching")),
		}

		// A player is human when an online identity is attached, or when the
		// AI handed over control at turn zero.
		aiTo := node.OptAttrInt("AIControlledToTurn")
		p.IsHuman = (p.OnlineID != nil) || (aiTo != nil && *aiTo == 0)
		p.IsSaveOwner = ownerID != nil && *ownerID == xmlID

		if v := node.OptChildInt("AmbitionDelay"); v != nil {
			p.AmbitionDelay = *v
		}
		if v := node.OptChildInt("TilesPurchased"); v != nil {
			p.TilesPurchased = *v
		}
		if v := node.OptChildInt("StateReligionChanges"); v != nil {
			p.StateReligionChanges = *v
		}
		if v := node.OptChildInt("TribeMercenariesHired"); v != nil {
			p.TribeMercenariesHired = *v
		}

		players = append(players, p)
	}
	slog.Debug("parsed players", "count", len(players))
	return players, nil
}
