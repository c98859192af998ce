package system

import (
    "io"
    "os"
    "path/filepath"

    clog "github.com/charmbracelet/log"
)

// Logger is the shared application logger.
// CLI subcommands log to stderr; the TUI moves it to a file with LogToFile.
var Logger = clog.NewWithOptions(os.Stderr, clog.Options{
    ReportTimestamp: true,
})

// LogToFile redirects Logger to path, appending, and returns the file so the
// caller can close it on exit. debug lowers the level to Debug.
func LogToFile(path string, debug bool) (io.Closer, error) {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return nil, err
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
    if err != nil {
        return nil, err
    }
    Logger.SetOutput(f)
    Logger.SetPrefix("porridge")
    if debug {
        Logger.SetLevel(clog.DebugLevel)
    }
    return f, nil
}
