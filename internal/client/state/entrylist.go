package state

import (
	"github.com/dmitrijs2005/moodiary/internal/domain"
)

// EntryList is the newest-first list of a user's entries, merged from the
// initial load, local mutation results and realtime change events.
//
// Merging is keyed by (ID, Version): a change is applied only when it is
// newer than what the list already knows about that id, so duplicated,
// replayed and out-of-order deliveries converge. Deleted ids keep a
// tombstone version.
//
// EntryList is not safe for concurrent use.
type EntryList struct {
	entries    []domain.Entry
	tombstones map[string]int64
}

func NewEntryList() *EntryList {
	return &EntryList{tombstones: make(map[string]int64)}
}

// Reset replaces the contents with entries, which must already be ordered
// newest first. Tombstones are forgotten.
func (l *EntryList) Reset(entries []domain.Entry) {
	l.entries = append([]domain.Entry(nil), entries...)
	l.tombstones = make(map[string]int64)
}

// Apply merges ev and reports whether the list changed.
func (l *EntryList) Apply(ev domain.ChangeEvent) bool {
	switch ev.Kind {
	case domain.EventInsert, domain.EventUpdate:
		return l.upsert(ev.Entry)
	case domain.EventDelete:
		return l.remove(ev.Entry.ID, ev.Entry.Version)
	}
	return false
}

// sortsBefore orders entries the way the server lists them: created_at
// descending, then id descending.
func sortsBefore(a, b domain.Entry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (l *EntryList) upsert(e domain.Entry) bool {
	if v, ok := l.tombstones[e.ID]; ok && e.Version <= v {
		return false
	}

	if i := l.index(e.ID); i >= 0 {
		if l.entries[i].Version >= e.Version {
			return false
		}
		l.entries[i] = e
		return true
	}

	// Concurrent creates may commit in a different order than they were
	// created, and replays can deliver updates for ids not loaded yet.
	// Either way the entry goes where a fresh load would put it.
	pos := len(l.entries)
	for i, cur := range l.entries {
		if sortsBefore(e, cur) {
			pos = i
			break
		}
	}
	l.entries = append(l.entries, domain.Entry{})
	copy(l.entries[pos+1:], l.entries[pos:])
	l.entries[pos] = e
	return true
}

func (l *EntryList) remove(id string, version int64) bool {
	if v, ok := l.tombstones[id]; !ok || version > v {
		l.tombstones[id] = version
	}

	i := l.index(id)
	if i < 0 {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return true
}

func (l *EntryList) index(id string) int {
	for i := range l.entries {
		if l.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *EntryList) Get(id string) (domain.Entry, bool) {
	if i := l.index(id); i >= 0 {
		return l.entries[i], true
	}
	return domain.Entry{}, false
}

// Entries returns a copy of the list, newest first.
func (l *EntryList) Entries() []domain.Entry {
	return append([]domain.Entry(nil), l.entries...)
}

func (l *EntryList) Len() int {
	return len(l.entries)
}
