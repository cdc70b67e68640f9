package store

import (
	"path/filepath"
	"testing"

	"maritime-forecast/internal/data"
	"maritime-forecast/internal/store/sqlite"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*data.DirStore); !ok {
		t.Errorf("Open without sqlite path = %T, want *data.DirStore", s)
	}

	s, err = Open(dir, filepath.Join(dir, "ref.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*sqlite.Store); !ok {
		t.Errorf("Open with sqlite path = %T, want *sqlite.Store", s)
	}

	if _, err := Open("", ""); err == nil {
		t.Error("expected error with neither location")
	}
}
