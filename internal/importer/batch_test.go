package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportBatch(t *testing.T) {
	st := openTestStore(t)
	dir := t.TempDir()

	paths := []string{
		writeSaveZip(t, dir, "a.zip", saveXML("game-a", 50)),
		writeSaveZip(t, dir, "b.zip", saveXML("game-b", 60)),
		writeSaveZip(t, dir, "dup.zip", saveXML("game-a", 50)),
	}
	junk := filepath.Join(dir, "junk.zip")
	require.NoError(t, os.WriteFile(junk, []byte("nope"), 0o644))
	paths = append(paths, junk)

	res := ImportBatch(context.Background(), st, paths, BatchOptions{Workers: 3})

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, junk, res.Errors[0].Path)

	// game-a lands once; its duplicate either skipped (imported second) or
	// re-imported idempotently, but the row count is stable either way.
	assert.Equal(t, 3, res.Successful+res.Skipped)
	assert.Equal(t, int64(2), count(t, st, "SELECT COUNT(*) FROM matches"))
	assert.Equal(t, int64(4), count(t, st, "SELECT COUNT(*) FROM players"))
}

func TestImportBatchSameGameSerializes(t *testing.T) {
	st := openTestStore(t)
	dir := t.TempDir()

	var paths []string
	for _, name := range []string{"a.zip", "b.zip", "c.zip"} {
		paths = append(paths, writeSaveZip(t, dir, name, saveXML("game-x", 40)))
	}

	res := ImportBatch(context.Background(), st, paths, BatchOptions{Workers: 3})

	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 3, res.Successful+res.Skipped)
	assert.Equal(t, int64(1), count(t, st, "SELECT COUNT(*) FROM matches"))
}
