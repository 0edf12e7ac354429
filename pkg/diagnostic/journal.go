package diagnostic

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/togglekit/pkg/feature"
)

// DefaultJournalSize is used when NewJournal gets a non-positive capacity.
const DefaultJournalSize = 50

// Entry is a recorded fault.
type Entry struct {
	ID      uuid.UUID     `json:"id"`
	Feature string        `json:"feature"`
	Phase   feature.Phase `json:"phase"`
	Note    string        `json:"note,omitempty"`
	Error   string        `json:"error"`
	At      time.Time     `json:"at"`
}

// JournalOption configures a Journal.
type JournalOption func(*Journal)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) JournalOption {
	return func(j *Journal) {
		if now != nil {
			j.now = now
		}
	}
}

// Journal keeps the most recent faults in a fixed-size ring.
// It is safe for concurrent use.
type Journal struct {
	now func() time.Time

	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
	total   uint64
}

// NewJournal creates a journal holding up to size entries.
func NewJournal(size int, opts ...JournalOption) *Journal {
	if size <= 0 {
		size = DefaultJournalSize
	}
	j := &Journal{
		now:     time.Now,
		entries: make([]Entry, size),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// ReportFault records the fault, evicting the oldest entry when full.
func (j *Journal) ReportFault(ctx context.Context, f *feature.CallbackError) {
	if f == nil {
		return
	}
	e := Entry{
		ID:      FaultID(ctx),
		Feature: f.Feature,
		Phase:   f.Phase,
		Note:    f.Note,
		At:      j.now(),
	}
	if f.Err != nil {
		e.Error = f.Err.Error()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries[j.next] = e
	j.next = (j.next + 1) % len(j.entries)
	if j.next == 0 {
		j.full = true
	}
	j.total++
}

// Entries returns the retained faults, newest first.
func (j *Journal) Entries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	n := j.next
	if j.full {
		n = len(j.entries)
	}
	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (j.next - i + len(j.entries)) % len(j.entries)
		out = append(out, j.entries[idx])
	}
	return out
}

// Total returns how many faults were ever reported, including evicted ones.
func (j *Journal) Total() uint64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.total
}

// Clear drops every retained entry. Total is kept.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	clear(j.entries)
	j.next = 0
	j.full = false
}
