package activity

import (
	"sync"
	"time"
)

// DefaultLimit is the number of entries kept per owner.
const DefaultLimit = 100

// Action names the kind of change an entry records.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Entry is one recorded task change.
type Entry struct {
	TaskID     string    `json:"task_id"`
	Action     Action    `json:"action"`
	Field      string    `json:"field,omitempty"`
	Value      string    `json:"value,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Log keeps the most recent entries of every owner in memory.
type Log struct {
	mu      sync.RWMutex
	limit   int
	entries map[string][]Entry
}

// NewLog creates a log that keeps at most limit entries per owner.
func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{
		limit:   limit,
		entries: make(map[string][]Entry),
	}
}

// Record appends entry to the owner's log, dropping the oldest beyond the limit.
func (l *Log) Record(ownerID string, entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := append(l.entries[ownerID], entry)
	if len(entries) > l.limit {
		entries = entries[len(entries)-l.limit:]
	}
	l.entries[ownerID] = entries
}

// List returns the owner's entries, newest first.
func (l *Log) List(ownerID string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.entries[ownerID]
	result := make([]Entry, len(entries))
	for i, e := range entries {
		result[len(entries)-1-i] = e
	}
	return result
}
