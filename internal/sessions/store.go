// Package sessions persists conversations so they can be resumed with
// --session.
package sessions

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"

    "github.com/google/uuid"

    "porridge/internal/config"
    "porridge/internal/models"
    "porridge/internal/store"
)

// ErrNotFound is returned by Load when no session has the given id.
var ErrNotFound = errors.New("session not found")

// Session is one saved conversation.
type Session struct {
    ID        string           `json:"id"`
    Backend   string           `json:"backend,omitempty"`
    Model     string           `json:"model,omitempty"`
    Messages  []models.Message `json:"messages"`
    CreatedAt time.Time        `json:"created_at"`
    UpdatedAt time.Time        `json:"updated_at"`
}

// New starts an empty session with a fresh id.
func New(backend, model string) *Session {
    now := time.Now()
    return &Session{
        ID:        uuid.NewString(),
        Backend:   backend,
        Model:     model,
        Messages:  []models.Message{},
        CreatedAt: now,
        UpdatedAt: now,
    }
}

// Title is the first line of the first user message, shortened for listings.
func (s *Session) Title() string {
    for _, m := range s.Messages {
        if !m.IsUser() {
            continue
        }
        line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(m.Text), "\n", 2)[0])
        if len([]rune(line)) > 60 {
            line = string([]rune(line)[:59]) + "…"
        }
        return line
    }
    return "(empty)"
}

// path returns the session file path, rejecting ids that are not uuids so
// callers cannot escape the sessions directory.
func path(id string) (string, error) {
    if _, err := uuid.Parse(id); err != nil {
        return "", fmt.Errorf("invalid session id %q", id)
    }
    dir, err := config.SessionsDir()
    if err != nil {
        return "", err
    }
    return filepath.Join(dir, id+".json"), nil
}

// Save writes s to disk and bumps UpdatedAt.
func Save(s *Session) error {
    p, err := path(s.ID)
    if err != nil {
        return err
    }
    s.UpdatedAt = time.Now()
    return store.SaveJSON(p, s)
}

// Load reads the session with the given id.
func Load(id string) (*Session, error) {
    p, err := path(id)
    if err != nil {
        return nil, err
    }
    var s Session
    found, err := store.LoadJSON(p, &s)
    if err != nil {
        return nil, fmt.Errorf("read session %s: %w", id, err)
    }
    if !found {
        return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
    }
    return &s, nil
}

// List returns all saved sessions, most recently updated first. Unreadable
// files are skipped.
func List() ([]*Session, error) {
    dir, err := config.SessionsDir()
    if err != nil {
        return nil, err
    }
    entries, err := os.ReadDir(dir)
    if err != nil {
        if os.IsNotExist(err) {
            return []*Session{}, nil
        }
        return nil, err
    }
    out := make([]*Session, 0, len(entries))
    for _, e := range entries {
        name := e.Name()
        if e.IsDir() || filepath.Ext(name) != ".json" {
            continue
        }
        s, err := Load(strings.TrimSuffix(name, ".json"))
        if err != nil {
            continue
        }
        out = append(out, s)
    }
    sort.SliceStable(out, func(i, j int) bool {
        return out[i].UpdatedAt.After(out[j].UpdatedAt)
    })
    return out, nil
}

// Remove deletes the given sessions, returning which were removed and which
// were missing.
func Remove(ids []string) (removed []string, missing []string, err error) {
    for _, id := range store.NormalizeStrings(ids) {
        p, perr := path(id)
        if perr != nil {
            return removed, missing, perr
        }
        if _, serr := os.Stat(p); serr != nil {
            if os.IsNotExist(serr) {
                missing = append(missing, id)
                continue
            }
            return removed, missing, serr
        }
        if err := store.Remove(p); err != nil {
            return removed, missing, err
        }
        removed = append(removed, id)
    }
    return removed, missing, nil
}
