package save

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// CityExtended bundles the nested per-city containers.
type CityExtended struct {
	Queue     []QueueItem
	Completed []ProjectCompleted
	Yields    []CityYield
	Religions []CityReligion
	Culture   []CityCulture
	Agents    []CityAgent
	Luxuries  []CityLuxury
}

// ParseCityExtended reads production queues, completed builds, yield
// progress, religion spread, culture levels, enemy agents and luxury imports
// nested under each City element.
func ParseCityExtended(doc *xmltree.Document) (*CityExtended, error) {
	out := &CityExtended{}
	for _, city := range doc.Root().ChildrenNamed("City") {
		cityID, err := city.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}

		if node := city.Child("BuildQueue"); node != nil {
			position := int32(0)
			for _, qi := range node.ChildrenNamed("QueueInfo") {
				build, err := qi.ReqChildText("Build")
				if err != nil {
					return nil, err
				}
				itemType, err := qi.ReqChildText("Type")
				if err != nil {
					return nil, err
				}
				item := QueueItem{
					CityXMLID: cityID,
					Position:  position,
					Build:     build,
					ItemType:  itemType,
				}
				if v := qi.OptChildInt("Progress"); v != nil {
					item.Progress = *v
				}
				if v := qi.OptChildInt("IsRepeat"); v != nil {
					item.IsRepeat = *v != 0
				}
				out.Queue = append(out.Queue, item)
				position++
			}
		}

		// CompletedBuild lists every finished queue entry; aggregate to
		// counts per "BUILD.TYPE" pair. ProjectCount carries already
		// aggregated counts; both land in the same table.
		counts := make(map[string]int32)
		if node := city.Child("CompletedBuild"); node != nil {
			for _, qi := range node.ChildrenNamed("QueueInfo") {
				build, ok := qi.OptChildText("Build")
				if !ok {
					build = "UNKNOWN"
				}
				itemType, ok := qi.OptChildText("Type")
				if !ok {
					itemType = "UNKNOWN"
				}
				counts[build+"."+itemType]++
			}
		}
		if node := city.Child("ProjectCount"); node != nil {
			for _, p := range node.Children {
				if v, err := strconv.ParseInt(p.Text, 10, 32); err == nil && v > 0 {
					counts[p.Tag] += int32(v)
				}
			}
		}
		for _, project := range sortedKeys(counts) {
			out.Completed = append(out.Completed, ProjectCompleted{
				CityXMLID: cityID, Project: project, Count: counts[project],
			})
		}

		if node := city.Child("YieldProgress"); node != nil {
			for _, y := range node.Children {
				progress := int32(0)
				if v, err := strconv.ParseInt(y.Text, 10, 32); err == nil {
					progress = int32(v)
				}
				out.Yields = append(out.Yields, CityYield{
					CityXMLID: cityID, Yield: y.Tag, Progress: progress,
				})
			}
		}

		if node := city.Child("Religion"); node != nil {
			for _, r := range node.Children {
				out.Religions = append(out.Religions, CityReligion{
					CityXMLID: cityID, Religion: r.Tag,
				})
			}
		}

		culture := teamKeyed(city, "TeamCulture")
		// TeamHappinessLevel is the 2023+ container; older saves wrote
		// TeamDiscontentLevel instead.
		happiness := teamKeyed(city, "TeamHappinessLevel")
		if len(happiness) == 0 {
			happiness = teamKeyed(city, "TeamDiscontentLevel")
		}
		for _, team := range mergedInt32Keys(culture, happiness) {
			out.Culture = append(out.Culture, CityCulture{
				CityXMLID:      cityID,
				Team:           team,
				CultureLevel:   culture[team],
				HappinessLevel: happiness[team],
			})
		}

		agentTurns := playerKeyed(city, "AgentTurn")
		agentChars := playerKeyed(city, "AgentCharacterID")
		agentTiles := playerKeyed(city, "AgentTileID")
		for _, enemy := range mergedInt32Keys(agentTurns, agentChars, agentTiles) {
			agent := CityAgent{CityXMLID: cityID, EnemyPlayerXMLID: enemy}
			if v, ok := agentTurns[enemy]; ok {
				turn := v
				agent.PlacedTurn = &turn
			}
			if v, ok := agentChars[enemy]; ok {
				id := v
				agent.CharacterXMLID = NormalizeID(&id)
			}
			if v, ok := agentTiles[enemy]; ok {
				id := v
				agent.TileXMLID = NormalizeID(&id)
			}
			out.Agents = append(out.Agents, agent)
		}

		if node := city.Child("LuxuryTurn"); node != nil {
			for _, lx := range node.Children {
				turn := int32(0)
				if v, err := strconv.ParseInt(lx.Text, 10, 32); err == nil {
					turn = int32(v)
				}
				out.Luxuries = append(out.Luxuries, CityLuxury{
					CityXMLID: cityID, Resource: lx.Tag, AcquiredTurn: turn,
				})
			}
		}
	}
	slog.Debug("parsed city extended data",
		"queue", len(out.Queue),
		"completed", len(out.Completed),
		"yields", len(out.Yields),
		"religions", len(out.Religions),
		"culture", len(out.Culture),
		"agents", len(out.Agents),
		"luxuries", len(out.Luxuries))
	return out, nil
}

// teamKeyed reads a container of <T.X>value</T.X> children.
func teamKeyed(city *xmltree.Node, container string) map[int32]int32 {
	return prefixKeyed(city, container, "T.")
}

// playerKeyed reads a container of <P.X>value</P.X> children.
func playerKeyed(city *xmltree.Node, container string) map[int32]int32 {
	return prefixKeyed(city, container, "P.")
}

func prefixKeyed(parent *xmltree.Node, container, prefix string) map[int32]int32 {
	out := make(map[int32]int32)
	node := parent.Child(container)
	if node == nil {
		return out
	}
	for _, c := range node.Children {
		key, ok := strings.CutPrefix(c.Tag, prefix)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(key, 10, 32)
		if err != nil {
			continue
		}
		v, err := strconv.ParseInt(c.Text, 10, 32)
		if err != nil {
			continue
		}
		out[int32(id)] = int32(v)
	}
	return out
}

func mergedInt32Keys(maps ...map[int32]int32) []int32 {
	seen := make(map[int32]struct{})
	for _, m := range maps {
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	keys := make([]int32, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedKeys(m map[string]int32) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
