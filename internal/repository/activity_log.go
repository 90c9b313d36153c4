package repository

import (
	"sync"
	"time"

	"kvt-storefront/internal/model"

	"github.com/google/uuid"
)

// MaxActivityEntries bounds the in-memory activity log.
const MaxActivityEntries = 1000

// ActivityFilter narrows a log query. All set filters are AND-combined;
// Limit applies after filtering.
type ActivityFilter struct {
	UserID     string
	Type       model.ActivityType
	EntityType model.EntityType
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
}

// ActivityLog is an append-only, capacity-bounded audit trail. Newest entries
// come first; once the capacity is exceeded the oldest entries are dropped.
// Entries are never mutated or individually deleted.
type ActivityLog struct {
	mu      sync.RWMutex
	entries []model.ActivityEntry
}

func NewActivityLog() *ActivityLog {
	return &ActivityLog{}
}

// Append records a new entry at the head, assigning it a fresh id and the
// current timestamp.
func (l *ActivityLog) Append(entry model.ActivityEntry) model.ActivityEntry {
	entry.ID = uuid.New().String()
	entry.Timestamp = time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]model.ActivityEntry{entry}, l.entries...)
	if len(l.entries) > MaxActivityEntries {
		l.entries = l.entries[:MaxActivityEntries]
	}
	return entry
}

// Query returns the entries matching every set filter, newest first.
func (l *ActivityLog) Query(f ActivityFilter) []model.ActivityEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.ActivityEntry
	for _, e := range l.entries {
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.StartDate != nil && e.Timestamp.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && e.Timestamp.After(*f.EndDate) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// Recent returns the newest entries, at most limit of them.
func (l *ActivityLog) Recent(limit int) []model.ActivityEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]model.ActivityEntry, limit)
	copy(out, l.entries[:limit])
	return out
}

// Len reports the number of retained entries.
func (l *ActivityLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops every entry. Intended for tests and resets only; it is not
// reachable from any HTTP surface.
func (l *ActivityLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
