package fsstore

import (
	"os"
	"path/filepath"
	"testing"
)

type offsetState struct {
	Offset int64 `json:"offset"`
}

func TestReadJSONMissingFileReturnsFalse(t *testing.T) {
	var out offsetState
	found, err := ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &out)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if found {
		t.Fatalf("ReadJSON() found = true for missing file")
	}
}

func TestWriteThenReadJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "offset.json")

	if err := WriteJSONAtomic(path, offsetState{Offset: 1234}, FileOptions{}); err != nil {
		t.Fatalf("WriteJSONAtomic() error = %v", err)
	}

	var out offsetState
	found, err := ReadJSON(path, &out)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if !found || out.Offset != 1234 {
		t.Fatalf("ReadJSON() = (%v, %+v), want offset 1234", found, out)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("file perm = %o, want 600", perm)
	}
}

func TestWriteJSONAtomicOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offset.json")
	if err := WriteJSONAtomic(path, offsetState{Offset: 1}, FileOptions{}); err != nil {
		t.Fatalf("WriteJSONAtomic() error = %v", err)
	}
	if err := WriteJSONAtomic(path, offsetState{Offset: 2}, FileOptions{}); err != nil {
		t.Fatalf("WriteJSONAtomic() second error = %v", err)
	}

	var out offsetState
	if _, err := ReadJSON(path, &out); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if out.Offset != 2 {
		t.Fatalf("offset = %d, want 2", out.Offset)
	}
}

func TestReadJSONEmptyFileReturnsFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out offsetState
	found, err := ReadJSON(path, &out)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if found {
		t.Fatalf("ReadJSON() found = true for empty file")
	}
}
