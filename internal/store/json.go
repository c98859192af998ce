package store

import (
    "encoding/json"
    "errors"
    "os"
    "path/filepath"
    "sort"
    "strings"
)

// NormalizeStrings trims, deduplicates and sorts a slice of strings.
func NormalizeStrings(in []string) []string {
    m := map[string]struct{}{}
    for _, s := range in {
        s = strings.TrimSpace(s)
        if s == "" {
            continue
        }
        m[s] = struct{}{}
    }
    out := make([]string, 0, len(m))
    for k := range m {
        out = append(out, k)
    }
    sort.Strings(out)
    return out
}

// LoadJSON decodes the JSON document at path into v.
// A missing file reports found=false without error and leaves v untouched.
func LoadJSON(path string, v any) (found bool, err error) {
    b, err := os.ReadFile(path)
    if err != nil {
        if os.IsNotExist(err) {
            return false, nil
        }
        return false, err
    }
    if err := json.Unmarshal(b, v); err != nil {
        return true, err
    }
    return true, nil
}

// SaveJSON writes v as indented JSON, creating parent dirs. The file is
// written next to its destination and renamed into place so readers never
// observe a half-written document.
func SaveJSON(path string, v any) error {
    if strings.TrimSpace(path) == "" {
        return errors.New("empty path")
    }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return err
    }
    b, err := json.MarshalIndent(v, "", "  ")
    if err != nil {
        return err
    }
    tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
    if err != nil {
        return err
    }
    if _, err := tmp.Write(b); err != nil {
        _ = tmp.Close()
        _ = os.Remove(tmp.Name())
        return err
    }
    if err := tmp.Close(); err != nil {
        _ = os.Remove(tmp.Name())
        return err
    }
    return os.Rename(tmp.Name(), path)
}

// Remove deletes path; a missing file is not an error.
func Remove(path string) error {
    if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
        return err
    }
    return nil
}
