package save

import (
	"log/slog"
	"strconv"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// CharacterExtended bundles the nested per-character containers.
type CharacterExtended struct {
	Stats         []CharacterStat
	Traits        []CharacterTrait
	Relationships []CharacterRelationship
	Marriages     []CharacterMarriage
}

// ParseCharacterExtended reads stats, traits, relationships and marriages
// nested under each Character element. Ratings (innate attributes) and Stats
// (lifetime achievements) land in the same stat table.
func ParseCharacterExtended(doc *xmltree.Document) (*CharacterExtended, error) {
	out := &CharacterExtended{}
	for _, ch := range doc.Root().ChildrenNamed("Character") {
		charID, err := ch.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}

		for _, container := range []string{"Rating", "Stat"} {
			node := ch.Child(container)
			if node == nil {
				continue
			}
			for _, s := range node.Children {
				v, err := strconv.ParseInt(s.Text, 10, 32)
				if err != nil {
					return nil, xmlIntError(s)
				}
				out.Stats = append(out.Stats, CharacterStat{
					CharacterXMLID: charID, Name: s.Tag, Value: int32(v),
				})
			}
		}

		if node := ch.Child("TraitTurn"); node != nil {
			for _, tr := range node.Children {
				turn, err := strconv.ParseInt(tr.Text, 10, 32)
				if err != nil {
					return nil, xmlIntError(tr)
				}
				out.Traits = append(out.Traits, CharacterTrait{
					CharacterXMLID: charID, Trait: tr.Tag, AcquiredTurn: int32(turn),
				})
			}
		}

		if node := ch.Child("RelationshipList"); node != nil {
			for _, rd := range node.ChildrenNamed("RelationshipData") {
				relType, err := rd.ReqChildText("Type")
				if err != nil {
					return nil, err
				}
				// Relationships without a target character are
				// self-referential bookkeeping; skip them.
				related := rd.OptChildInt("CharacterID")
				if related == nil {
					continue
				}
				out.Relationships = append(out.Relationships, CharacterRelationship{
					CharacterXMLID:        charID,
					RelatedCharacterXMLID: *related,
					Relationship:          relType,
					Value:                 rd.OptChildInt("Value"),
					StartedTurn:           NormalizeTurn(rd.OptChildInt("Turn")),
				})
			}
		}

		if node := ch.Child("Spouses"); node != nil {
			for _, id := range node.ChildrenNamed("ID") {
				spouse, err := strconv.ParseInt(id.Text, 10, 32)
				if err != nil {
					return nil, xmlIntError(id)
				}
				out.Marriages = append(out.Marriages, CharacterMarriage{
					CharacterXMLID: charID,
					SpouseXMLID:    int32(spouse),
				})
			}
		}
	}
	slog.Debug("parsed character extended data",
		"stats", len(out.Stats),
		"traits", len(out.Traits),
		"relationships", len(out.Relationships),
		"marriages", len(out.Marriages))
	return out, nil
}
