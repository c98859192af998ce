package tools

import (
    "regexp"
    "strings"
)

// Editors disagree on format: "NVIM v0.10.1", "VIM - Vi IMproved 9.1",
// "GNU nano, version 7.2", "helix 24.7 (079f5442)".
var verRe = regexp.MustCompile(`(?i)\bv?(\d+\.\d+(?:\.\d+)?(?:-[\w.]+)?)\b`)

// ParseVersion extracts the first dotted version number, preferring the
// first line of s.
func ParseVersion(s string) string {
    s = strings.TrimSpace(s)
    if s == "" {
        return ""
    }
    line := strings.Split(s, "\n")[0]
    if m := verRe.FindStringSubmatch(line); len(m) > 1 {
        return m[1]
    }
    if m := verRe.FindStringSubmatch(s); len(m) > 1 {
        return m[1]
    }
    return ""
}
