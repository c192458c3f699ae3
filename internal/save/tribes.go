package save

import (
	"log/slog"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// ParseTribes reads all Tribe elements under Root. Tribes are identified by
// string ids like TRIBE_REBELS; the numeric id is a stable hash of that
// string.
func ParseTribes(doc *xmltree.Document) ([]Tribe, error) {
	var tribes []Tribe
	for _, node := range doc.Root().ChildrenNamed("Tribe") {
		idString, err := node.ReqAttr("ID")
		if err != nil {
			return nil, err
		}
		tribes = append(tribes, Tribe{
			XMLID:                StableID31(idString),
			IDString:             idString,
			LeaderCharacterXMLID: NormalizeID(node.OptChildInt("LeaderID")),
			AlliedPlayerXMLID:    NormalizeID(node.OptChildInt("AlliedPlayer")),
			Religion:             optString(node.OptChildText("Religion")),
		})
	}
	slog.Debug("parsed tribes", "count", len(tribes))
	return tribes, nil
}
