package save

import (
	"log/slog"
	"sort"
	"strconv"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// ParseReligions assembles religion records from the aggregate containers
// under the Game element (ReligionFounded, ReligionHeadID, ReligionHolyCity,
// ReligionFounder). Religions never appear as individual elements.
func ParseReligions(doc *xmltree.Document) ([]Religion, error) {
	game := doc.Root().Child("Game")
	if game == nil {
		return nil, nil
	}

	byName := make(map[string]*Religion)
	get := func(name string) *Religion {
		if r, ok := byName[name]; ok {
			return r
		}
		r := &Religion{XMLID: StableID31(name), Name: name}
		byName[name] = r
		return r
	}

	forEach(game.Child("ReligionFounded"), func(name string, v int32) {
		t := v
		get(name).FoundedTurn = NormalizeTurn(&t)
	})
	forEach(game.Child("ReligionHeadID"), func(name string, v int32) {
		id := v
		get(name).HeadCharacterXMLID = NormalizeID(&id)
	})
	forEach(game.Child("ReligionHolyCity"), func(name string, v int32) {
		id := v
		get(name).HolyCityXMLID = NormalizeID(&id)
	})
	forEach(game.Child("ReligionFounder"), func(name string, v int32) {
		id := v
		get(name).FounderPlayerXMLID = NormalizeID(&id)
	})

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	religions := make([]Religion, 0, len(names))
	for _, n := range names {
		religions = append(religions, *byName[n])
	}
	slog.Debug("parsed religions", "count", len(religions))
	return religions, nil
}

// forEach iterates a name-to-int container, skipping unparseable values.
func forEach(node *xmltree.Node, fn func(name string, v int32)) {
	if node == nil {
		return
	}
	for _, c := range node.Children {
		if v, err := strconv.ParseInt(c.Text, 10, 32); err == nil {
			fn(c.Tag, int32(v))
		}
	}
}
