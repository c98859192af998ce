package editprompt

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// OpWatchFile is reported when a running watch stops delivering events.
const OpWatchFile = "could not watch prompt file"

// Aborter stops a background task.
type Aborter interface {
	Abort()
}

// WatchHandle is the session's only reference to a running watch.
type WatchHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Abort stops the watch. Safe to call repeatedly and after the watch ended
// on its own.
func (h *WatchHandle) Abort() {
	h.once.Do(h.cancel)
}

// Done is closed once the watch goroutine has exited.
func (h *WatchHandle) Done() <-chan struct{} { return h.done }

// Watch follows file for saves until a changed, non-blank prompt is seen,
// then sends PromptReady and stops. Parse and delivery errors are sent as
// Failure. The parent directory is watched so rename-on-save editors are seen.
func Watch(file *PromptFile, original, session string, sender Sender) (*WatchHandle, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, newError(KindWatch, OpCreateWatcher, err)
	}
	if err := w.Add(filepath.Dir(file.Path())); err != nil {
		_ = w.Close()
		return nil, newError(KindWatch, OpCreateWatcher, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &WatchHandle{cancel: cancel, done: make(chan struct{})}
	fw := &fileWatch{file: file, original: original, session: session, sender: sender}
	go func() {
		defer close(h.done)
		defer w.Close()
		fw.run(ctx, w.Events, w.Errors)
	}()
	return h, nil
}

type fileWatch struct {
	file     *PromptFile
	original string
	session  string
	sender   Sender
}

func (fw *fileWatch) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if fw.handle(ctx, ev) {
				return
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			fw.send(ctx, Failure{Session: fw.session, Err: newError(KindWatch, OpWatchFile, err)})
			return
		}
	}
}

// handle processes one notification and reports whether the watch is over.
func (fw *fileWatch) handle(ctx context.Context, ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != filepath.Base(fw.file.Path()) {
		return false
	}
	// Chmod alone is metadata/access noise; Remove and Rename are followed
	// by a Create when an editor swaps the file in.
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	text, err := fw.file.Parse()
	if err != nil {
		fw.send(ctx, Failure{Session: fw.session, Err: err})
		return true
	}
	if !edited(text, fw.original) {
		return false
	}
	fw.send(ctx, PromptReady{Session: fw.session, Text: text})
	return true
}

func (fw *fileWatch) send(ctx context.Context, msg Event) {
	if ctx.Err() != nil {
		return
	}
	fw.sender.Send(msg)
}

// edited reports whether text counts as a finished edit of original.
func edited(text, original string) bool {
	return strings.TrimSpace(text) != "" && text != original
}
