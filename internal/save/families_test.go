package save

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFamiliesAssemblesPerPlayerState(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<FamilyClass>
			<FAMILY_FABIUS>FAMILYCLASS_CHAMPIONS</FAMILY_FABIUS>
			<FAMILY_VALERIUS>FAMILYCLASS_LANDOWNERS</FAMILY_VALERIUS>
		</FamilyClass>
		<Player ID="0" Name="P">
			<FamilyHeadID>
				<FAMILY_FABIUS>68</FAMILY_FABIUS>
				<FAMILY_VALERIUS>95</FAMILY_VALERIUS>
			</FamilyHeadID>
			<FamilySeatCityID>
				<FAMILY_FABIUS>2</FAMILY_FABIUS>
			</FamilySeatCityID>
			<FamilyTurnsNoLeader>
				<FAMILY_VALERIUS>7</FAMILY_VALERIUS>
			</FamilyTurnsNoLeader>
		</Player>
	</Root>`)

	families, err := ParseFamilies(doc)
	require.NoError(t, err)
	require.Len(t, families, 2)

	var fabius *Family
	for i := range families {
		if families[i].Name == "FAMILY_FABIUS" {
			fabius = &families[i]
		}
	}
	require.NotNil(t, fabius)
	assert.Equal(t, "FAMILYCLASS_CHAMPIONS", fabius.Class)
	assert.Equal(t, int32(0), fabius.PlayerXMLID)
	assert.Equal(t, int32(68), *fabius.HeadCharacterXMLID)
	assert.Equal(t, int32(2), *fabius.SeatCityXMLID)
	assert.Equal(t, StableID31("FAMILY_FABIUS"), fabius.XMLID)
}

func TestParseFamiliesNestedClassContainer(t *testing.T) {
	// Some save versions nest FamilyClass under Game.
	doc := parseDoc(t, `<Root GameId="g">
		<Game>
			<FamilyClass><FAMILY_X>FAMILYCLASS_SAGES</FAMILY_X></FamilyClass>
		</Game>
		<Player ID="0" Name="P">
			<FamilyHeadID><FAMILY_X>3</FAMILY_X></FamilyHeadID>
		</Player>
	</Root>`)

	families, err := ParseFamilies(doc)
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "FAMILYCLASS_SAGES", families[0].Class)
}

func TestStableID31(t *testing.T) {
	a := StableID31("FAMILY_FABIUS")
	b := StableID31("FAMILY_FABIUS")
	c := StableID31("FAMILY_VALERIUS")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.GreaterOrEqual(t, a, int32(0))
	assert.GreaterOrEqual(t, c, int32(0))
}
