// Package dedup suppresses repeated triggers for the same bill.
//
// Payment apps re-render their confirmation screen several times and the
// accessibility layer fires an event for each render. Guard keeps the last
// accepted fingerprint and rejects an identical one inside the window.
package dedup

import (
	"sync"
	"time"

	"github.com/Veraticus/autobill/internal/model"
)

// DefaultWindow is the suppression window used when none is configured.
const DefaultWindow = 5 * time.Second

// Guard is safe for concurrent use. Its state lives only in memory.
type Guard struct {
	lastAcceptedAt time.Time
	last           model.Fingerprint
	window         time.Duration
	mu             sync.Mutex
}

// New creates a guard with the given window; a non-positive window selects
// DefaultWindow.
func New(window time.Duration) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Guard{window: window}
}

// Accept reports whether candidate should continue down the pipeline. A
// rejected candidate leaves the state untouched, so the window is measured
// from the last accepted bill rather than the last seen one.
func (g *Guard) Accept(candidate model.CandidateBill, now time.Time) bool {
	fp := candidate.Fingerprint()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.last != "" && fp == g.last && now.Sub(g.lastAcceptedAt) < g.window {
		return false
	}

	g.last = fp
	g.lastAcceptedAt = now
	return true
}

// Reset forgets the last accepted bill.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = ""
	g.lastAcceptedAt = time.Time{}
}

// Window returns the configured suppression window.
func (g *Guard) Window() time.Duration {
	return g.window
}
