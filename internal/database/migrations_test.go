package database

import (
	"io/fs"
	"testing"
	"testing/fstest"
)

func TestPendingOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.sql":    {Data: []byte("SELECT 1")},
		"002_second.sql":   {Data: []byte("SELECT 1")},
		"001_first.sql":    {Data: []byte("SELECT 1")},
		"README.md":        {Data: []byte("notes")},
		"abc_invalid.sql":  {Data: []byte("SELECT 1")},
		"003_dir/keep.sql": {Data: []byte("SELECT 1")},
	}

	got, err := pendingOrder(fsys)
	if err != nil {
		t.Fatalf("pendingOrder: %v", err)
	}

	want := []string{"001_first.sql", "002_second.sql", "010_later.sql"}
	if len(got) != len(want) {
		t.Fatalf("got %d migrations, want %d: %+v", len(got), len(want), got)
	}
	for i, m := range got {
		if m.name != want[i] {
			t.Errorf("migration %d = %s, want %s", i, m.name, want[i])
		}
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	fsys := Migrations()

	got, err := pendingOrder(fsys)
	if err != nil {
		t.Fatalf("pendingOrder: %v", err)
	}
	if len(got) == 0 || got[0].version != 1 {
		t.Fatalf("expected the kv store migration first, got %+v", got)
	}

	content, err := fs.ReadFile(fsys, got[0].name)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(content) == 0 {
		t.Error("migration is empty")
	}
}
