package tools

import (
    "context"
    "fmt"
    "os/exec"
    "strings"
    "sync"
    "time"

    "porridge/internal/editprompt"
)

var defaultVersionArgs = [][]string{{"--version"}, {"-version"}, {"version"}}

// probeTimeout bounds a single version query. Windowed editors such as zed
// may be slow to answer on a cold start.
var probeTimeout = 3 * time.Second

// binaryEditor is implemented by launchers backed by a single executable.
type binaryEditor interface {
    Binary() string
}

// Targets lists the editors in reg that are backed by a binary.
func Targets(reg *editprompt.Registry) []Target {
    var out []Target
    for _, e := range reg.Editors() {
        b, ok := e.(binaryEditor)
        if !ok || b.Binary() == "" {
            continue
        }
        out = append(out, Target{Name: e.Name(), Binary: b.Binary(), Terminal: e.Blocking()})
    }
    return out
}

// Check looks up the target binary in PATH and asks it for a version.
func Check(ctx context.Context, t Target) CheckResult {
    res := CheckResult{Target: t}
    path, err := exec.LookPath(t.Binary)
    if err != nil {
        res.Err = fmt.Sprintf("%s not found in PATH", t.Binary)
        return res
    }
    res.Installed = true
    res.Path = path

    args := t.VersionArgs
    if len(args) == 0 {
        args = defaultVersionArgs
    }
    for _, a := range args {
        cctx, cancel := context.WithTimeout(ctx, probeTimeout)
        out, err := runCmd(cctx, path, a...)
        cancel()
        if err != nil || strings.TrimSpace(out) == "" {
            continue
        }
        ver := ParseVersion(out)
        if ver == "" {
            ver = strings.Split(strings.TrimSpace(out), "\n")[0]
        }
        res.Version = ver
        res.Source = strings.TrimSpace(t.Binary + " " + strings.Join(a, " "))
        return res
    }
    return res
}

// CheckAll probes every target concurrently, keeping input order.
func CheckAll(ctx context.Context, targets []Target) []CheckResult {
    out := make([]CheckResult, len(targets))
    var wg sync.WaitGroup
    for i, t := range targets {
        wg.Add(1)
        go func(i int, t Target) {
            defer wg.Done()
            out[i] = Check(ctx, t)
        }(i, t)
    }
    wg.Wait()
    return out
}
