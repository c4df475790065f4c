package ui

import (
	"fmt"
	"io"
	"sync"
)

// Recorder keeps every rendered state in order
type Recorder struct {
	mu     sync.Mutex
	states []State
}

// Render implements Renderer
func (r *Recorder) Render(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

// States returns a copy of the recorded states
func (r *Recorder) States() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.states))
	copy(out, r.states)
	return out
}

// Last returns the most recent state
func (r *Recorder) Last() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return Initial()
	}
	return r.states[len(r.states)-1]
}

// TerminalRenderer prints what changed between consecutive states
type TerminalRenderer struct {
	w    io.Writer
	prev State
}

// NewTerminalRenderer creates a renderer writing to w
func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	return &TerminalRenderer{w: w, prev: Initial()}
}

// Render implements Renderer
func (t *TerminalRenderer) Render(s State) {
	prev := t.prev
	t.prev = s

	if s.StatusVisible && (!prev.StatusVisible || s.Status != prev.Status) {
		marker := "✓"
		if s.Status == StatusOffline {
			marker = "✗"
		}
		fmt.Fprintf(t.w, "%s %s\n", marker, s.StatusText())
	}

	if s.Loading && !prev.Loading {
		fmt.Fprintln(t.w, LoadingLabel)
	}

	if s.Phase != prev.Phase {
		switch s.Phase {
		case PhaseSuccess:
			fmt.Fprintf(t.w, "Estimated price: %s\n", s.PriceText)
		case PhaseError:
			fmt.Fprintf(t.w, "Error: %s\n", s.Message)
		}
	}
}
