package save

import (
	"log/slog"
	"sort"
	"strconv"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// ParseFamilies assembles family records. Families are not individual
// elements in the save format; their state is scattered across a global
// FamilyClass container and three per-player mapping containers
// (FamilyHeadID, FamilySeatCityID, FamilyTurnsNoLeader).
func ParseFamilies(doc *xmltree.Document) ([]Family, error) {
	root := doc.Root()
	classes := familyClasses(root)

	var families []Family
	for _, player := range root.ChildrenNamed("Player") {
		playerID, err := player.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}

		heads := familyMapping(player.Child("FamilyHeadID"))
		seats := familyMapping(player.Child("FamilySeatCityID"))
		turnsNoLeader := familyMapping(player.Child("FamilyTurnsNoLeader"))

		names := make(map[string]struct{})
		for n := range heads {
			names[n] = struct{}{}
		}
		for n := range seats {
			names[n] = struct{}{}
		}
		for n := range turnsNoLeader {
			names[n] = struct{}{}
		}

		sorted := make([]string, 0, len(names))
		for n := range names {
			sorted = append(sorted, n)
		}
		sort.Strings(sorted)

		for _, name := range sorted {
			f := Family{
				XMLID:       StableID31(name),
				Name:        name,
				Class:       classes[name],
				PlayerXMLID: playerID,
			}
			if id, ok := heads[name]; ok {
				v := id
				f.HeadCharacterXMLID = NormalizeID(&v)
			}
			if id, ok := seats[name]; ok {
				v := id
				f.SeatCityXMLID = NormalizeID(&v)
			}
			if t, ok := turnsNoLeader[name]; ok {
				f.TurnsWithoutLeader = t
			}
			families = append(families, f)
		}
	}
	slog.Debug("parsed families", "count", len(families))
	return families, nil
}

// familyClasses reads the global FamilyClass container. The element nesting
// moved between save versions, so fall back to a subtree search.
func familyClasses(root *xmltree.Node) map[string]string {
	node := root.Child("FamilyClass")
	if node == nil {
		node = root.Find("FamilyClass")
	}
	classes := make(map[string]string)
	if node == nil {
		return classes
	}
	for _, c := range node.Children {
		if c.Text != "" {
			classes[c.Tag] = c.Text
		}
	}
	return classes
}

// familyMapping reads a container whose children map family names to ints.
func familyMapping(node *xmltree.Node) map[string]int32 {
	out := make(map[string]int32)
	if node == nil {
		return out
	}
	for _, c := range node.Children {
		if v, err := strconv.ParseInt(c.Text, 10, 32); err == nil {
			out[c.Tag] = int32(v)
		}
	}
	return out
}
