package search

import (
	"context"
	"errors"
	"sync"
)

type inflightEntry struct {
	id     uint64
	cancel context.CancelCauseFunc
}

// Inflight tracks the running search of each session.
// Beginning a search cancels the session's previous one with ErrSuperseded.
type Inflight struct {
	mu     sync.Mutex
	seq    uint64
	active map[string]inflightEntry
}

// NewInflight creates an empty registry
func NewInflight() *Inflight {
	return &Inflight{active: make(map[string]inflightEntry)}
}

// Begin registers a search for sessionID and returns its context and a release func.
// An empty sessionID is never superseded.
func (r *Inflight) Begin(ctx context.Context, sessionID string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	if sessionID == "" {
		return ctx, func() { cancel(nil) }
	}

	r.mu.Lock()
	if prev, ok := r.active[sessionID]; ok {
		prev.cancel(ErrSuperseded)
	}
	r.seq++
	id := r.seq
	r.active[sessionID] = inflightEntry{id: id, cancel: cancel}
	r.mu.Unlock()

	return ctx, func() {
		r.mu.Lock()
		if cur, ok := r.active[sessionID]; ok && cur.id == id {
			delete(r.active, sessionID)
		}
		r.mu.Unlock()
		cancel(nil)
	}
}

// Len returns the number of sessions with a running search
func (r *Inflight) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// Superseded reports whether ctx was cancelled because a newer search replaced it
func Superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}
