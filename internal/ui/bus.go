package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Bus carries messages from background goroutines (the prompt file watcher,
// backend streams) into the update loop. Send never blocks once the bus is
// closed.
type Bus struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

func NewBus() *Bus {
	return &Bus{ch: make(chan tea.Msg, 64), done: make(chan struct{})}
}

// Send queues msg for the update loop. Safe for concurrent use.
func (b *Bus) Send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	case <-b.done:
	}
}

// Close stops delivery; pending and future messages are dropped.
func (b *Bus) Close() { b.once.Do(func() { close(b.done) }) }

// busMsg wraps a message that arrived through the bus so Update knows to
// listen again after handling it.
type busMsg struct{ msg tea.Msg }

// Listen waits for the next bus message. Update re-issues it after every
// busMsg, so exactly one listener is outstanding at a time.
func (b *Bus) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return busMsg{msg: msg}
		case <-b.done:
			return nil
		}
	}
}
