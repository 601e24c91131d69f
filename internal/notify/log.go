// Package notify keeps the capped, auto-expiring notification log.
package notify

import (
	"time"

	"github.com/verte-zerg/facescan/internal/model"
	"github.com/verte-zerg/facescan/internal/timeline"
)

// Scheduler schedules expiry callbacks.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) *timeline.Task
}

// Log is a sliding window of the most recent notifications. An entry leaves
// the window when it is evicted by a newer one or when its TTL elapses,
// whichever comes first.
type Log struct {
	sched   Scheduler
	ttl     time.Duration
	limit   int
	nextID  uint64
	entries []model.Notification
}

// NewLog returns a Log holding at most limit entries for ttl each.
func NewLog(sched Scheduler, ttl time.Duration, limit int) *Log {
	if limit < 1 {
		limit = 1
	}
	return &Log{sched: sched, ttl: ttl, limit: limit}
}

// Add appends a notification, evicting the oldest entries over the cap.
func (l *Log) Add(text string) model.Notification {
	l.nextID++
	n := model.Notification{
		ID:        l.nextID,
		Text:      text,
		CreatedAt: l.sched.Now(),
	}
	l.entries = append(l.entries, n)
	if len(l.entries) > l.limit {
		l.entries = append([]model.Notification(nil), l.entries[len(l.entries)-l.limit:]...)
	}
	id := n.ID
	l.sched.After(l.ttl, func() { l.remove(id) })
	return n
}

// Visible returns the current entries, oldest first.
func (l *Log) Visible() []model.Notification {
	out := make([]model.Notification, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of visible entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// remove drops an entry by id. Already evicted entries are ignored.
func (l *Log) remove(id uint64) {
	for i, n := range l.entries {
		if n.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}
