package save

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventsStories(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="A">
			<AllEventStoryTurn>
				<EVENTSTORY_CULTURE_PAID>14</EVENTSTORY_CULTURE_PAID>
			</AllEventStoryTurn>
			<FamilyEventStoryTurn>
				<FAMILY_BARCID_MARRIAGE_OFFER>10</FAMILY_BARCID_MARRIAGE_OFFER>
			</FamilyEventStoryTurn>
		</Player>
		<Character ID="5" Player="0" BirthTurn="1">
			<EventStoryTurn><EVENTSTORY_DUEL>12</EVENTSTORY_DUEL></EventStoryTurn>
		</Character>
		<City ID="3" Player="0">
			<EventStoryTurn><EVENTSTORY_FESTIVAL>20</EVENTSTORY_FESTIVAL></EventStoryTurn>
		</City>
	</Root>`)

	stories, _, _, err := ParseEvents(doc)
	require.NoError(t, err)
	require.Len(t, stories, 4)

	assert.Equal(t, "EVENTSTORY_CULTURE_PAID", stories[0].EventType)
	assert.Equal(t, int32(14), stories[0].Turn)
	assert.Nil(t, stories[0].CharacterXMLID)

	assert.Equal(t, int32(5), *stories[2].CharacterXMLID)
	assert.Equal(t, int32(3), *stories[3].CityXMLID)
}

func TestParseEventsLogsFilterNone(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="A">
			<PermanentLogList>
				<LogData>
					<Text>Discovered Ironworking</Text>
					<Type>TECH_DISCOVERED</Type>
					<Data1>TECH_IRONWORKING</Data1>
					<Data2>None</Data2>
					<Data3></Data3>
					<Turn>7</Turn>
				</LogData>
			</PermanentLogList>
		</Player>
	</Root>`)

	_, logs, _, err := ParseEvents(doc)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	assert.Equal(t, "TECH_DISCOVERED", logs[0].LogType)
	assert.Equal(t, int32(7), logs[0].Turn)
	assert.Equal(t, "TECH_IRONWORKING", *logs[0].Data1)
	assert.Nil(t, logs[0].Data2)
	assert.Nil(t, logs[0].Data3)
}

func TestParseEventsMemories(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="A">
			<MemoryList>
				<MemoryData>
					<Type>MEMORYPLAYER_DECLARED_WAR</Type>
					<Turn>9</Turn>
					<Player>1</Player>
				</MemoryData>
				<MemoryData>
					<Type>MEMORYCHARACTER_INSULTED</Type>
					<Turn>12</Turn>
					<CharacterID>44</CharacterID>
				</MemoryData>
				<MemoryData><Turn>1</Turn></MemoryData>
			</MemoryList>
		</Player>
	</Root>`)

	_, _, memories, err := ParseEvents(doc)
	require.NoError(t, err)
	require.Len(t, memories, 2)

	assert.Equal(t, "player", *memories[0].SubjectType)
	assert.Equal(t, "1", *memories[0].SubjectID)
	assert.Equal(t, "character", *memories[1].SubjectType)
	assert.Equal(t, "44", *memories[1].SubjectID)
}

func TestParseEventsLegacyMemoryLists(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="A">
			<MemoryFamilyList>
				<MemoryFamilyData>
					<Type>MEMORYFAMILY_SNUBBED</Type>
					<Turn>4</Turn>
					<Family>FAMILY_JULII</Family>
				</MemoryFamilyData>
			</MemoryFamilyList>
		</Player>
	</Root>`)

	_, _, memories, err := ParseEvents(doc)
	require.NoError(t, err)
	require.Len(t, memories, 1)
	assert.Equal(t, "family", *memories[0].SubjectType)
	assert.Equal(t, "FAMILY_JULII", *memories[0].SubjectID)
}
