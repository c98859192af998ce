package backend

import (
	"context"
	"strings"
	"time"
)

const (
	EchoModel  = "echo"
	ShoutModel = "shout"
)

// Echo replies with the prompt itself, one word per chunk. It needs no
// network and backs the default configuration and the tests.
type Echo struct {
	// Delay between chunks; zero streams as fast as the reader consumes.
	Delay time.Duration
}

func NewEcho() *Echo { return &Echo{Delay: 15 * time.Millisecond} }

func (e *Echo) Name() string { return "echo" }

func (e *Echo) ListModels(ctx context.Context) ([]string, error) {
	return []string{EchoModel, ShoutModel}, nil
}

func (e *Echo) Send(ctx context.Context, req Request) (<-chan Response, error) {
	text := req.Prompt
	if req.Model == ShoutModel {
		text = strings.ToUpper(text)
	}
	words := strings.SplitAfter(text, " ")
	ch := make(chan Response)
	go func() {
		defer close(ch)
		for _, w := range words {
			if w == "" {
				continue
			}
			if err := ctx.Err(); err != nil {
				ch <- Response{Err: err}
				return
			}
			if e.Delay > 0 {
				select {
				case <-ctx.Done():
					ch <- Response{Err: ctx.Err()}
					return
				case <-time.After(e.Delay):
				}
			}
			select {
			case <-ctx.Done():
				ch <- Response{Err: ctx.Err()}
				return
			case ch <- Response{Text: w}:
			}
		}
		ch <- Response{Done: true}
	}()
	return ch, nil
}
