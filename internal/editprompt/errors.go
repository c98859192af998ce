package editprompt

import (
	"errors"
	"fmt"
)

// Kind classifies edit-prompt failures.
type Kind int

const (
	KindIO Kind = iota + 1
	KindConfiguration
	KindLaunch
	KindWatch
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io error"
	case KindConfiguration:
		return "configuration error"
	case KindLaunch:
		return "launch error"
	case KindWatch:
		return "watch error"
	case KindProtocol:
		return "protocol error"
	}
	return "unknown error"
}

// Sentinels for errors.Is.
var (
	ErrIO            = kindError(KindIO)
	ErrConfiguration = kindError(KindConfiguration)
	ErrLaunch        = kindError(KindLaunch)
	ErrWatch         = kindError(KindWatch)
	ErrProtocol      = kindError(KindProtocol)
)

type kindError Kind

func (k kindError) Error() string { return Kind(k).String() }

// User-facing operation names. They end up verbatim in the transcript.
const (
	OpCreateTempFile = "could not create temp file"
	OpResolveEditor  = "could not resolve editor"
	OpLaunchEditor   = "could not launch editor"
	OpParsePrompt    = "could not parse prompt file"
	OpCreateWatcher  = "could not create file watcher"
	OpAlreadyActive  = "edit prompt already in progress"
	OpUnexpected     = "edit prompt received an unexpected event"
)

// Error is a failure of one edit-prompt operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels so callers can write errors.Is(err, ErrWatch).
func (e *Error) Is(target error) bool {
	var k kindError
	if errors.As(target, &k) {
		return Kind(k) == e.Kind
	}
	return false
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// opOf returns the user-facing operation for err, falling back to def.
func opOf(err error, def string) string {
	var e *Error
	if errors.As(err, &e) && e.Op != "" {
		return e.Op
	}
	return def
}
