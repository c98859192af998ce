package store

import (
    "os"
    "path/filepath"
    "testing"
)

func TestSaveLoadJSON(t *testing.T) {
    path := filepath.Join(t.TempDir(), "nested", "doc.json")

    var got map[string]int
    found, err := LoadJSON(path, &got)
    if err != nil || found {
        t.Fatalf("expected missing file, got found=%v err=%v", found, err)
    }

    if err := SaveJSON(path, map[string]int{"a": 1, "b": 2}); err != nil {
        t.Fatalf("SaveJSON error: %v", err)
    }
    found, err = LoadJSON(path, &got)
    if err != nil || !found {
        t.Fatalf("LoadJSON error: found=%v err=%v", found, err)
    }
    if got["a"] != 1 || got["b"] != 2 {
        t.Fatalf("unexpected doc: %v", got)
    }

    // no temp files left behind
    entries, err := os.ReadDir(filepath.Dir(path))
    if err != nil {
        t.Fatalf("ReadDir error: %v", err)
    }
    if len(entries) != 1 {
        t.Fatalf("expected only doc.json, got %d entries", len(entries))
    }

    if err := Remove(path); err != nil {
        t.Fatalf("Remove error: %v", err)
    }
    if err := Remove(path); err != nil {
        t.Fatalf("second Remove error: %v", err)
    }
}

func TestLoadJSONCorrupt(t *testing.T) {
    path := filepath.Join(t.TempDir(), "bad.json")
    if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
        t.Fatal(err)
    }
    var v map[string]any
    found, err := LoadJSON(path, &v)
    if !found || err == nil {
        t.Fatalf("expected decode error, got found=%v err=%v", found, err)
    }
}

func TestNormalizeStrings(t *testing.T) {
    got := NormalizeStrings([]string{" b", "a", "", "a ", "b"})
    if len(got) != 2 || got[0] != "a" || got[1] != "b" {
        t.Fatalf("unexpected: %v", got)
    }
}

func TestSaveJSONEmptyPath(t *testing.T) {
    if err := SaveJSON("  ", 1); err == nil {
        t.Fatalf("expected error for empty path")
    }
}
