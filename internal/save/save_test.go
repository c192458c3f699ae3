package save

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

func parseDoc(t *testing.T, xml string) *xmltree.Document {
	t.Helper()
	doc, err := xmltree.Parse(xml)
	require.NoError(t, err)
	return doc
}
