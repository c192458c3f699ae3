package save

import (
	"log/slog"
	"strconv"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// PlayerGameplay bundles the per-player gameplay containers parsed in one
// sweep over the Player elements.
type PlayerGameplay struct {
	Resources     []PlayerResource
	TechProgress  []TechProgress
	TechCompleted []TechCompleted
	TechStates    []TechState
	Council       []CouncilSeat
	Laws          []Law
	Goals         []Goal
}

// techStateContainers maps container element names to the state value stored
// for each tech listed inside them.
var techStateContainers = []struct {
	element string
	state   string
}{
	{"TechAvailable", "available"},
	{"TechPassed", "passed"},
	{"TechTrashed", "trashed"},
	{"TechLocked", "locked"},
	{"TechTarget", "targeted"},
}

// ParsePlayerGameplay reads yields, research, council, laws and goals nested
// under each Player element.
func ParsePlayerGameplay(doc *xmltree.Document) (*PlayerGameplay, error) {
	out := &PlayerGameplay{}
	for _, player := range doc.Root().ChildrenNamed("Player") {
		playerID, err := player.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}

		if node := player.Child("YieldStockpile"); node != nil {
			for _, y := range node.Children {
				amount, err := strconv.ParseInt(y.Text, 10, 32)
				if err != nil {
					return nil, xmlIntError(y)
				}
				out.Resources = append(out.Resources, PlayerResource{
					PlayerXMLID: playerID, Resource: y.Tag, Amount: int32(amount),
				})
			}
		}

		if node := player.Child("TechProgress"); node != nil {
			for _, t := range node.Children {
				progress, err := strconv.ParseInt(t.Text, 10, 32)
				if err != nil {
					return nil, xmlIntError(t)
				}
				out.TechProgress = append(out.TechProgress, TechProgress{
					PlayerXMLID: playerID, Tech: t.Tag, Progress: int32(progress),
				})
			}
		}

		// TechCount holds completion counts; count > 0 means completed. The
		// completion turn is not recorded at this location in the save.
		if node := player.Child("TechCount"); node != nil {
			for _, t := range node.Children {
				count, err := strconv.ParseInt(t.Text, 10, 32)
				if err != nil {
					return nil, xmlIntError(t)
				}
				if count > 0 {
					out.TechCompleted = append(out.TechCompleted, TechCompleted{
						PlayerXMLID: playerID, Tech: t.Tag, Count: int32(count),
					})
				}
			}
		}

		for _, sc := range techStateContainers {
			node := player.Child(sc.element)
			if node == nil {
				continue
			}
			for _, t := range node.Children {
				out.TechStates = append(out.TechStates, TechState{
					PlayerXMLID: playerID, Tech: t.Tag, State: sc.state,
				})
			}
		}

		if node := player.Child("CouncilCharacter"); node != nil {
			for _, seat := range node.Children {
				charID, err := strconv.ParseInt(seat.Text, 10, 32)
				if err != nil {
					return nil, xmlIntError(seat)
				}
				out.Council = append(out.Council, CouncilSeat{
					PlayerXMLID: playerID, Position: seat.Tag, CharacterXMLID: int32(charID),
				})
			}
		}

		if node := player.Child("ActiveLaw"); node != nil {
			for _, law := range node.Children {
				if law.Text == "" {
					continue
				}
				out.Laws = append(out.Laws, Law{
					PlayerXMLID: playerID, LawClass: law.Tag, Law: law.Text,
				})
			}
		}

		if node := player.Child("GoalList"); node != nil {
			for _, gd := range node.ChildrenNamed("GoalData") {
				goalType, err := gd.ReqChildText("Type")
				if err != nil {
					return nil, err
				}
				goalID, err := reqChildInt(gd, "ID")
				if err != nil {
					return nil, err
				}
				startedTurn, err := reqChildInt(gd, "Turn")
				if err != nil {
					return nil, err
				}
				out.Goals = append(out.Goals, Goal{
					PlayerXMLID:          playerID,
					GoalID:               goalID,
					Goal:                 goalType,
					StartedTurn:          startedTurn,
					MaxTurns:             gd.OptChildInt("MaxTurns"),
					Finished:             gd.Child("Finished") != nil,
					LeaderCharacterXMLID: NormalizeID(gd.OptChildInt("LeaderID")),
				})
			}
		}
	}
	slog.Debug("parsed player gameplay data",
		"resources", len(out.Resources),
		"tech_progress", len(out.TechProgress),
		"tech_completed", len(out.TechCompleted),
		"council", len(out.Council),
		"laws", len(out.Laws),
		"goals", len(out.Goals))
	return out, nil
}

func reqChildInt(n *xmltree.Node, tag string) (int32, error) {
	text, err := n.ReqChildText(tag)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, xmlIntError(n.Child(tag))
	}
	return int32(v), nil
}
