package services

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixtureNote struct {
	noteID int64
	cardID int64
	flds   interface{}
}

// buildAPKG writes a minimal collection with the legacy schema and wraps
// it in a zip under entryName.
func buildAPKG(t *testing.T, entryName, modelsJSON string, notes []fixtureNote) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "collection.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE col (id INTEGER PRIMARY KEY, models TEXT)`,
		`CREATE TABLE notes (id INTEGER PRIMARY KEY, flds TEXT)`,
		`CREATE TABLE cards (id INTEGER PRIMARY KEY, nid INTEGER)`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	_, err = db.Exec(`INSERT INTO col (id, models) VALUES (1, ?)`, modelsJSON)
	require.NoError(t, err)

	for _, n := range notes {
		_, err := db.Exec(`INSERT OR IGNORE INTO notes (id, flds) VALUES (?, ?)`, n.noteID, n.flds)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO cards (id, nid) VALUES (?, ?)`, n.cardID, n.noteID)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return zipEntries(t, map[string][]byte{entryName: raw})
}

func zipEntries(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const basicModels = `{
	"1700000000002": {"name": "Reverse", "flds": [{"name": "Back", "ord": 0}, {"name": "Front", "ord": 1}]},
	"1700000000001": {"name": "Basic", "flds": [{"name": "Front", "ord": 1}, {"name": "Kanji", "ord": 0}, {"name": "", "ord": 2}]}
}`
