// Package backend defines the chat backend boundary and a registry of
// available backends.
package backend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"porridge/internal/models"
)

// Request is one prompt together with the conversation so far.
type Request struct {
	Model   string
	Prompt  string
	History []models.Message
}

// Response is one streamed chunk. The final chunk has Done set; Err ends the
// stream early.
type Response struct {
	Text string
	Done bool
	Err  error
}

// Backend sends prompts to a model and streams the reply.
type Backend interface {
	Name() string
	ListModels(ctx context.Context) ([]string, error)
	// Send starts a reply; the channel is closed after the Done or Err chunk.
	Send(ctx context.Context, req Request) (<-chan Response, error)
}

// Registry maps backend names to implementations.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

func NewRegistry() *Registry {
	return &Registry{backends: map[string]Backend{}}
}

// Register adds b under its name, replacing any previous registration.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[strings.ToLower(b.Name())] = b
}

// Get looks a backend up by case-insensitive name.
func (r *Registry) Get(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("no backend configured")
	}
	b, ok := r.backends[key]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (available: %s)", name, strings.Join(r.namesLocked(), ", "))
	}
	return b, nil
}

// Names lists registered backends, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	out := make([]string, 0, len(r.backends))
	for k := range r.backends {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Default returns a registry holding the built-in backends.
func Default() *Registry {
	r := NewRegistry()
	r.Register(NewEcho())
	return r
}
