package xmltree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicTree(t *testing.T) {
	doc, err := Parse(`<Root GameID="g-1">
		<Player ID="0" Name="Ada">
			<Legitimacy>42</Legitimacy>
		</Player>
		<Player ID="1" Name="Bo"/>
	</Root>`)
	require.NoError(t, err)

	root := doc.Root()
	assert.Equal(t, "Root", root.Tag)

	players := root.ChildrenNamed("Player")
	require.Len(t, players, 2)

	name, err := players[0].ReqAttr("Name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)

	leg := players[0].OptChildInt("Legitimacy")
	require.NotNil(t, leg)
	assert.Equal(t, int32(42), *leg)
}

func TestParseRejectsWrongRoot(t *testing.T) {
	_, err := Parse(`<Save><Player ID="0"/></Save>`)
	assert.ErrorIs(t, err, ErrMalformedXML)
}

func TestParseMalformedReportsLocationAndContext(t *testing.T) {
	_, err := Parse("<Root>\n  <Player ID=\"0\">\n</Root>")
	require.ErrorIs(t, err, ErrMalformedXML)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "Player")
}

func TestParseContextWindowIsBounded(t *testing.T) {
	long := "<Root>" + strings.Repeat("<A>1</A>", 5000) + "<Broken</Root>"
	_, err := Parse(long)
	require.ErrorIs(t, err, ErrMalformedXML)
	// The quoted context must stay a window, not the whole document.
	assert.Less(t, len(err.Error()), 400)
}

func TestPathIncludesIDs(t *testing.T) {
	doc, err := Parse(`<Root><Player ID="0"><Character ID="5"/></Player></Root>`)
	require.NoError(t, err)

	ch := doc.Root().Child("Player").Child("Character")
	assert.Equal(t, "/Root/Player[ID=0]/Character[ID=5]", ch.Path())
}

func TestReqAttrMissing(t *testing.T) {
	doc, err := Parse(`<Root><Player ID="0"/></Root>`)
	require.NoError(t, err)

	_, err = doc.Root().Child("Player").ReqAttr("Name")
	require.ErrorIs(t, err, ErrMissingAttribute)
	assert.Contains(t, err.Error(), "/Root/Player[ID=0]@Name")
}

func TestReqChildTextMissing(t *testing.T) {
	doc, err := Parse(`<Root><Player ID="0"/></Root>`)
	require.NoError(t, err)

	_, err = doc.Root().Child("Player").ReqChildText("Nation")
	assert.ErrorIs(t, err, ErrMissingElement)
}

func TestReqAttrIntInvalid(t *testing.T) {
	doc, err := Parse(`<Root><Player ID="zero"/></Root>`)
	require.NoError(t, err)

	_, err = doc.Root().Child("Player").ReqAttrInt("ID")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestOptHelpers(t *testing.T) {
	doc, err := Parse(`<Root>
		<City ID="3">
			<Founded>12</Founded>
			<Capital>true</Capital>
			<Empty></Empty>
			<Seed>123456789012</Seed>
		</City>
	</Root>`)
	require.NoError(t, err)
	city := doc.Root().Child("City")

	assert.Equal(t, int32(12), *city.OptChildInt("Founded"))
	assert.True(t, city.OptChildBool("Capital"))
	assert.False(t, city.OptChildBool("Missing"))
	assert.Nil(t, city.OptChildInt("Empty"))
	assert.Equal(t, int64(123456789012), *city.OptChildInt64("Seed"))

	_, ok := city.OptChildText("Empty")
	assert.False(t, ok)
}

func TestFindNested(t *testing.T) {
	doc, err := Parse(`<Root><Game><FamilyClass><FAMILY_X>CLASS_Y</FAMILY_X></FamilyClass></Game></Root>`)
	require.NoError(t, err)

	fc := doc.Root().Find("FamilyClass")
	require.NotNil(t, fc)
	require.Len(t, fc.Children, 1)
	assert.Equal(t, "FAMILY_X", fc.Children[0].Tag)
	assert.Equal(t, "CLASS_Y", fc.Children[0].Text)
}

func TestLineIndex(t *testing.T) {
	idx := newLineIndex("ab\ncd\nef")
	line, col := idx.locate(0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = idx.locate(4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)

	line, col = idx.locate(6)
	assert.Equal(t, 3, line)
	assert.Equal(t, 1, col)
}
