package backend

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan Response) (string, Response) {
	t.Helper()
	var b strings.Builder
	var last Response
	for r := range ch {
		b.WriteString(r.Text)
		last = r
	}
	return b.String(), last
}

func TestEchoStreamsPrompt(t *testing.T) {
	e := &Echo{}
	ch, err := e.Send(context.Background(), Request{Model: EchoModel, Prompt: "hello there world"})
	require.NoError(t, err)
	text, last := collect(t, ch)
	require.Equal(t, "hello there world", text)
	require.True(t, last.Done)
	require.NoError(t, last.Err)
}

func TestEchoShout(t *testing.T) {
	e := &Echo{}
	ch, err := e.Send(context.Background(), Request{Model: ShoutModel, Prompt: "quiet please"})
	require.NoError(t, err)
	text, _ := collect(t, ch)
	require.Equal(t, "QUIET PLEASE", text)
}

func TestEchoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := &Echo{Delay: 1}
	ch, err := e.Send(ctx, Request{Prompt: "a b c"})
	require.NoError(t, err)
	_, last := collect(t, ch)
	require.ErrorIs(t, last.Err, context.Canceled)
	require.False(t, last.Done)
}

func TestRegistry(t *testing.T) {
	r := Default()
	require.Equal(t, []string{"echo"}, r.Names())

	b, err := r.Get("ECHO")
	require.NoError(t, err)
	models, err := b.ListModels(context.Background())
	require.NoError(t, err)
	require.Contains(t, models, EchoModel)

	_, err = r.Get("openai")
	require.ErrorContains(t, err, "available: echo")
	_, err = r.Get(" ")
	require.Error(t, err)
}
