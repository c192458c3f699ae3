package save

import (
	"log/slog"
	"strings"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// ParseDiplomacy reads the TribeDiplomacy and TeamDiplomacy containers under
// the Game element. The relation endpoints are encoded in the element names:
//
//	<TRIBE_REBELS.0>DIPLOMACY_WAR</TRIBE_REBELS.0>  tribe vs player
//	<T.0.1>DIPLOMACY_WAR</T.0.1>                    team vs team
func ParseDiplomacy(doc *xmltree.Document) ([]DiplomacyEdge, error) {
	game := doc.Root().Child("Game")
	if game == nil {
		return nil, nil
	}

	var edges []DiplomacyEdge
	if td := game.Child("TribeDiplomacy"); td != nil {
		for _, entry := range td.Children {
			// Tribe names may themselves contain dots in theory, so split
			// off the player id from the right.
			i := strings.LastIndexByte(entry.Tag, '.')
			if i <= 0 || entry.Text == "" {
				slog.Warn("skipping malformed tribe diplomacy key", "key", entry.Tag)
				continue
			}
			edges = append(edges, DiplomacyEdge{
				Entity1Type: "tribe",
				Entity1ID:   entry.Tag[:i],
				Entity2Type: "player",
				Entity2ID:   entry.Tag[i+1:],
				Relation:    entry.Text,
			})
		}
	}
	if td := game.Child("TeamDiplomacy"); td != nil {
		for _, entry := range td.Children {
			parts := strings.Split(entry.Tag, ".")
			if len(parts) != 3 || parts[0] != "T" || entry.Text == "" {
				slog.Warn("skipping malformed team diplomacy key", "key", entry.Tag)
				continue
			}
			edges = append(edges, DiplomacyEdge{
				Entity1Type: "player",
				Entity1ID:   parts[1],
				Entity2Type: "player",
				Entity2ID:   parts[2],
				Relation:    entry.Text,
			})
		}
	}
	slog.Debug("parsed diplomacy edges", "count", len(edges))
	return edges, nil
}
