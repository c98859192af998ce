package tools

import (
    "context"
    "errors"
    "os"
    "os/exec"
)

// runCmd executes a command and returns its combined output.
func runCmd(ctx context.Context, name string, args ...string) (string, error) {
    cmd := exec.CommandContext(ctx, name, args...)
    // Keep editors from paging or colouring their --version output.
    cmd.Env = append(os.Environ(), "NO_COLOR=1", "PAGER=cat", "TERM=dumb")
    out, err := cmd.CombinedOutput()
    if errors.Is(ctx.Err(), context.DeadlineExceeded) {
        return "", ctx.Err()
    }
    return string(out), err
}
