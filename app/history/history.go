// Package history keeps the expressions a user analyzed, most recent last.
// A Store belongs to one shell session (an HTTP server, a browser page);
// there is no process-wide instance.
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Entry is one remembered expression.
type Entry struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Expression string    `json:"expression" yaml:"expression"`
	AddedAt    time.Time `json:"added_at" yaml:"added_at"`
}

// Store is an ordered expression history. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

// Add appends expr unless it is blank or equal to the most recent entry.
// The returned bool reports whether an entry was added.
func (s *Store) Add(expr string) (Entry, bool) {
	if strings.TrimSpace(expr) == "" {
		return Entry{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.entries); n > 0 && s.entries[n-1].Expression == expr {
		return Entry{}, false
	}
	e := Entry{ID: uuid.New(), Expression: expr, AddedAt: s.now()}
	s.entries = append(s.entries, e)
	return e, true
}

// Entries returns a copy of the history in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Expressions returns the remembered expression strings in insertion order.
func (s *Store) Expressions() []string {
	return lo.Map(s.Entries(), func(e Entry, _ int) string { return e.Expression })
}

// Remove deletes the first entry whose expression equals expr.
func (s *Store) Remove(expr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, i, ok := lo.FindIndexOf(s.entries, func(e Entry) bool { return e.Expression == expr })
	if !ok {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

// RemoveID deletes the entry with the given id.
func (s *Store) RemoveID(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, i, ok := lo.FindIndexOf(s.entries, func(e Entry) bool { return e.ID == id })
	if !ok {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

// Clear forgets every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
