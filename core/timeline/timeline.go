// Package timeline holds the ordered, append-only log of conversation
// entries. Entries are never reordered or removed once appended; only the
// most recently appended entry may be mutated in place, and only while it
// is still the tail.
package timeline

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Entry is one unit of conversation history: text, an embedded board
// widget, or both.
type Entry struct {
	ID      string
	Speaker Speaker
	Text    string
	Widget  *Widget
}

// Widget embeds an interactive game board in an entry. Cells is an
// immutable snapshot of the position at the moment of the ply; HandleClick
// is bound to the live game session and validates against the live state,
// not the snapshot, so clicks on superseded boards resolve there.
type Widget struct {
	Game  string
	Cells [][]string

	HandleClick func(row, col int)
}

// Store is the ordered entry log. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewStore() *Store {
	return &Store{}
}

// Append adds an entry to the end of the log and returns its ID. An ID is
// assigned when the entry carries none.
func (s *Store) Append(entry Entry) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	s.entries = append(s.entries, entry)
	return entry.ID
}

// MutateLast applies update to the entry with the given ID only while it is
// still the last entry. A mutation targeting an entry that has since been
// superseded by a later append is dropped, which keeps stale stream handles
// from corrupting the log. Reports whether the mutation was applied.
func (s *Store) MutateLast(id string, update func(*Entry)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return false
	}

	last := &s.entries[len(s.entries)-1]
	if last.ID != id {
		return false
	}

	update(last)
	return true
}

// Replace swaps the entry with the given ID wholesale, keeping its position
// and ID. Reports whether the entry was found.
func (s *Store) Replace(id string, entry Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			entry.ID = id
			s.entries[i] = entry
			return true
		}
	}
	return false
}

// Entry returns a copy of the entry with the given ID.
func (s *Store) Entry(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			return s.entries[i], true
		}
	}
	return Entry{}, false
}

// Last returns a copy of the tail entry.
func (s *Store) Last() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Snapshot returns a point-in-time deep copy of the log, safe to render
// while the tail is still being mutated.
func (s *Store) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	if err := copier.CopyWithOption(&entries, s.entries, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on invalid to/from types; fall back to a
		// shallow copy rather than dropping the render source.
		entries = append(entries[:0], s.entries...)
	}
	for i := range entries {
		if entries[i].Widget != nil && s.entries[i].Widget != nil {
			entries[i].Widget.HandleClick = s.entries[i].Widget.HandleClick
		}
	}
	return entries
}

// Values iterates over all entries from earliest to latest.
func (s *Store) Values(yield func(Entry) bool) {
	for _, entry := range s.Snapshot() {
		if !yield(entry) {
			return
		}
	}
}
