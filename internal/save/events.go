package save

import (
	"log/slog"
	"strconv"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// playerStoryContainers are the per-player story event containers. Each child
// element maps an event type to the turn it fired.
var playerStoryContainers = []string{
	"AllEventStoryTurn",
	"FamilyEventStoryTurn",
	"ReligionEventStoryTurn",
	"TribeEventStoryTurn",
	"PlayerEventStoryTurn",
}

// ParseEvents reads story events, permanent event logs and memories in a
// single sweep. They live in the same regions of the document, so one
// traversal covers all three.
func ParseEvents(doc *xmltree.Document) ([]StoryEvent, []EventLog, []Memory, error) {
	root := doc.Root()

	var stories []StoryEvent
	var logs []EventLog
	var memories []Memory

	for _, player := range root.ChildrenNamed("Player") {
		playerID, err := player.ReqAttrInt("ID")
		if err != nil {
			return nil, nil, nil, err
		}
		for _, container := range playerStoryContainers {
			node := player.Child(container)
			if node == nil {
				continue
			}
			for _, ev := range node.Children {
				turn := int32(0)
				if v := stringToInt32(ev.Text); v != nil {
					turn = *v
				}
				stories = append(stories, StoryEvent{
					EventType:   ev.Tag,
					PlayerXMLID: playerID,
					Turn:        turn,
				})
			}
		}
		logs = append(logs, parseEventLogs(player, playerID)...)
		memories = append(memories, parseMemories(player, playerID)...)
	}

	for _, ch := range root.ChildrenNamed("Character") {
		charID, err := ch.ReqAttrInt("ID")
		if err != nil {
			return nil, nil, nil, err
		}
		playerID := NormalizeID(ch.OptAttrInt("Player"))
		if playerID == nil {
			continue
		}
		if node := ch.Child("EventStoryTurn"); node != nil {
			for _, ev := range node.Children {
				turn := int32(0)
				if v := stringToInt32(ev.Text); v != nil {
					turn = *v
				}
				id := charID
				stories = append(stories, StoryEvent{
					EventType:      ev.Tag,
					PlayerXMLID:    *playerID,
					Turn:           turn,
					CharacterXMLID: &id,
				})
			}
		}
	}

	for _, city := range root.ChildrenNamed("City") {
		cityID, err := city.ReqAttrInt("ID")
		if err != nil {
			return nil, nil, nil, err
		}
		playerID := NormalizeID(city.OptAttrInt("Player"))
		if playerID == nil {
			continue
		}
		if node := city.Child("EventStoryTurn"); node != nil {
			for _, ev := range node.Children {
				turn := int32(0)
				if v := stringToInt32(ev.Text); v != nil {
					turn = *v
				}
				id := cityID
				stories = append(stories, StoryEvent{
					EventType:   ev.Tag,
					PlayerXMLID: *playerID,
					Turn:        turn,
					CityXMLID:   &id,
				})
			}
		}
	}

	slog.Debug("parsed events",
		"stories", len(stories), "logs", len(logs), "memories", len(memories))
	return stories, logs, memories, nil
}

func parseEventLogs(player *xmltree.Node, playerID int32) []EventLog {
	list := player.Child("PermanentLogList")
	if list == nil {
		return nil
	}
	var logs []EventLog
	for _, ld := range list.ChildrenNamed("LogData") {
		logType, _ := ld.OptChildText("Type")
		turn := int32(0)
		if v := ld.OptChildInt("Turn"); v != nil {
			turn = *v
		}
		logs = append(logs, EventLog{
			PlayerXMLID: playerID,
			LogType:     logType,
			Turn:        turn,
			Description: optString(ld.OptChildText("Text")),
			Data1:       logDataValue(ld, "Data1"),
			Data2:       logDataValue(ld, "Data2"),
			Data3:       logDataValue(ld, "Data3"),
		})
	}
	return logs
}

// logDataValue filters the "None" placeholder the game writes for unused
// data slots.
func logDataValue(ld *xmltree.Node, tag string) *string {
	v, ok := ld.OptChildText(tag)
	if !ok || v == "None" {
		return nil
	}
	return &v
}

// legacyMemoryLists is the 2024 save layout, one list per subject kind.
var legacyMemoryLists = []struct{ list, data string }{
	{"MemoryPlayerList", "MemoryPlayerData"},
	{"MemoryFamilyList", "MemoryFamilyData"},
	{"MemoryCharacterList", "MemoryCharacterData"},
	{"MemoryTribeList", "MemoryTribeData"},
	{"MemoryReligionList", "MemoryReligionData"},
}

func parseMemories(player *xmltree.Node, playerID int32) []Memory {
	var memories []Memory

	// 2025 layout: one unified MemoryList.
	if list := player.Child("MemoryList"); list != nil {
		for _, md := range list.ChildrenNamed("MemoryData") {
			if m, ok := parseMemoryData(md, playerID); ok {
				memories = append(memories, m)
			}
		}
	}
	if len(memories) > 0 {
		return memories
	}

	for _, legacy := range legacyMemoryLists {
		list := player.Child(legacy.list)
		if list == nil {
			continue
		}
		for _, md := range list.ChildrenNamed(legacy.data) {
			if m, ok := parseMemoryData(md, playerID); ok {
				memories = append(memories, m)
			}
		}
	}
	return memories
}

// memorySubjects orders the possible subject elements of a memory; the first
// one present wins.
var memorySubjects = []struct{ tag, kind string }{
	{"Player", "player"},
	{"CharacterID", "character"},
	{"City", "city"},
	{"Family", "family"},
	{"Tribe", "tribe"},
	{"Religion", "religion"},
}

func parseMemoryData(md *xmltree.Node, playerID int32) (Memory, bool) {
	memoryType, ok := md.OptChildText("Type")
	if !ok {
		return Memory{}, false
	}
	m := Memory{
		PlayerXMLID: playerID,
		MemoryType:  memoryType,
	}
	if v := md.OptChildInt("Turn"); v != nil {
		m.Turn = *v
	}
	for _, s := range memorySubjects {
		if v, ok := md.OptChildText(s.tag); ok {
			kind := s.kind
			m.SubjectType = &kind
			m.SubjectID = &v
			break
		}
	}
	return m, true
}

func stringToInt32(s string) *int32 {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil
	}
	out := int32(v)
	return &out
}
