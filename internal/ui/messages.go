package ui

import (
	"time"

	"porridge/internal/backend"
	"porridge/internal/system"
)

// streamChunkMsg is one backend chunk for the reply with the given id.
type streamChunkMsg struct {
	id   int
	resp backend.Response
}

// modelsMsg carries the result of /modellist.
type modelsMsg struct {
	models []string
	err    error
}

// generic notifications
type noticeMsg string

// periodic tick for the status bar clock
type tickMsg time.Time

// git info updates
type gitInfoMsg struct{ info system.GitInfo }

// sessionSavedMsg reports a failed write of the conversation.
type sessionSavedMsg struct{ err error }
