package models

import (
	"strings"
	"time"
)

// Author identifies who wrote a transcript message.
type Author string

const (
	AuthorUser     Author = "user"
	AuthorPorridge Author = "porridge"
)

// ModelAuthor returns the author used for replies from the named model.
func ModelAuthor(model string) Author {
	model = strings.TrimSpace(model)
	if model == "" {
		return Author("model")
	}
	return Author(model)
}

// MessageType controls how a message is rendered.
type MessageType int

const (
	MessageNormal MessageType = iota
	MessageError
)

func (t MessageType) String() string {
	switch t {
	case MessageError:
		return "error"
	default:
		return "normal"
	}
}

// Message is a single transcript entry.
type Message struct {
	Author    Author      `json:"author"`
	Text      string      `json:"text"`
	Type      MessageType `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewMessage(author Author, text string) Message {
	return NewMessageWithType(author, MessageNormal, text)
}

func NewMessageWithType(author Author, typ MessageType, text string) Message {
	return Message{Author: author, Text: text, Type: typ, CreatedAt: time.Now()}
}

// IsUser reports whether the message was typed by the user.
func (m Message) IsUser() bool { return m.Author == AuthorUser }

// AppendText extends a streamed reply in place.
func (m *Message) AppendText(s string) { m.Text += s }
