package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ewilliams-labs/songradar/internal/adapters/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ImportsCSVIntoSQLite(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "catalog.csv")
	out := filepath.Join(dir, "catalog.db")
	csv := "track_name,artist,genres,popularity\n" +
		"Hello,Adele,\"['pop', 'soul']\",90\n" +
		"Skyfall,Adele,['pop'],70\n"
	require.NoError(t, os.WriteFile(in, []byte(csv), 0o600))

	n, err := run(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	db, err := sqlite.NewAdapter(out)
	require.NoError(t, err)
	defer db.Close()

	entries, err := db.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Hello", entries[0].TrackName)
	assert.Equal(t, []string{"pop", "soul"}, entries[0].Genres)
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := run(context.Background(), filepath.Join(dir, "missing.csv"), filepath.Join(dir, "out.db"))
	assert.Error(t, err)
}
