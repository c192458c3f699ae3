package save

import (
	"log/slog"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// ParseCharacters reads all Character elements under Root. Parent and birth
// city references stay as xml ids; they are resolved by patch passes after
// all characters and cities exist in the store.
func ParseCharacters(doc *xmltree.Document) ([]Character, error) {
	var characters []Character
	for _, node := range doc.Root().ChildrenNamed("Character") {
		xmlID, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		birthTurn, err := node.ReqAttrInt("BirthTurn")
		if err != nil {
			return nil, err
		}

		c := Character{
			XMLID:     xmlID,
			FirstName: optString(node.OptAttr("FirstName")),
			Gender:    optString(node.OptAttr("Gender")),

			// Tribal characters carry Player="-1".
			PlayerXMLID: NormalizeID(node.OptAttrInt("Player")),
			Family:      optString(node.OptChildText("Family")),
			Religion:    optString(node.OptChildText("Religion")),
			Tribe:       optString(node.OptChildText("Tribe")),
			Nation:      optString(node.OptChildText("Nation")),

			BirthTurn:   birthTurn,
			DeathTurn:   NormalizeTurn(node.OptChildInt("DeathTurn")),
			DeathReason: optString(node.OptChildText("DeathReason")),

			BirthFatherXMLID: NormalizeID(node.OptChildInt("BirthFatherID")),
			BirthMotherXMLID: NormalizeID(node.OptChildInt("BirthMotherID")),
			BirthCityXMLID:   NormalizeID(node.OptChildInt("BirthCityID")),

			Cognomen:  optString(node.OptChildText("Cognomen")),
			Archetype: optString(node.OptChildText("Archetype")),
			Portrait:  optString(node.OptChildText("Portrait")),

			XP:    node.OptChildInt("XP"),
			Level: node.OptChildInt("Level"),

			IsRoyal:     node.OptChildBool("IsRoyal"),
			IsInfertile: node.OptChildBool("IsInfertile"),

			BecameLeaderTurn: NormalizeTurn(node.OptChildInt("BecameLeaderTurn")),
			AbdicatedTurn:    NormalizeTurn(node.OptChildInt("AbdicatedTurn")),
			NationJoinedTurn: NormalizeTurn(node.OptChildInt("NationJoinedTurn")),
			Seed:             node.OptChildInt64("Seed"),
		}
		characters = append(characters, c)
	}
	slog.Debug("parsed characters", "count", len(characters))
	return characters, nil
}
