package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDropDatabaseRemovesSidecars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxscores.db")
	for name, size := range map[string]int{"boxscores.db": 2048, "boxscores.db-wal": 100, "other.db": 10} {
		if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	n, freed, err := dropDatabase(path)
	if err != nil {
		t.Fatalf("dropDatabase: %v", err)
	}
	if n != 2 || freed != 2148 {
		t.Errorf("got %d files, %d bytes; want 2 files, 2148 bytes", n, freed)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("database still present: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "other.db")); err != nil {
		t.Errorf("unrelated file removed: %v", err)
	}

	n, _, err = dropDatabase(path)
	if err != nil || n != 0 {
		t.Errorf("second drop: %d files, err %v", n, err)
	}
}

func TestHumanBytes(t *testing.T) {
	cases := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KiB",
		5 * 1024 * 1024: "5.0 MiB",
	}
	for in, want := range cases {
		if got := humanBytes(in); got != want {
			t.Errorf("humanBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
