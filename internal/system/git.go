package system

import (
    "context"
    "os/exec"
    "strings"
    "time"
)

// gitTimeout bounds each git invocation so a slow repository never stalls
// the status bar.
const gitTimeout = 800 * time.Millisecond

// GitInfo is the repository state shown in the status bar.
type GitInfo struct {
    InRepo bool
    Branch string
    Dirty  bool
}

// Label renders the info as "branch" or "branch*" when dirty; "" outside a repo.
func (g GitInfo) Label() string {
    if !g.InRepo || g.Branch == "" {
        return ""
    }
    if g.Dirty {
        return g.Branch + "*"
    }
    return g.Branch
}

// GetGitInfo inspects the repository containing dir. A missing git binary or
// a dir outside any repository yields a zero GitInfo, not an error.
func GetGitInfo(ctx context.Context, dir string) GitInfo {
    var gi GitInfo
    if _, err := exec.LookPath("git"); err != nil {
        return gi
    }
    if out, err := gitOutput(ctx, dir, "rev-parse", "--is-inside-work-tree"); err != nil || out != "true" {
        return gi
    }
    gi.InRepo = true

    if out, err := gitOutput(ctx, dir, "symbolic-ref", "--quiet", "--short", "HEAD"); err == nil {
        gi.Branch = out
    } else if sha, err := gitOutput(ctx, dir, "rev-parse", "--short", "HEAD"); err == nil {
        // detached head
        gi.Branch = "@" + sha
    }
    if out, err := gitOutput(ctx, dir, "status", "--porcelain"); err == nil {
        gi.Dirty = out != ""
    }
    return gi
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
    cctx, cancel := context.WithTimeout(ctx, gitTimeout)
    defer cancel()
    out, err := exec.CommandContext(cctx, "git", append([]string{"-C", dir}, args...)...).Output()
    return strings.TrimSpace(string(out)), err
}
