package notify

import (
	"sync"
	"time"

	"investportal/internal/utils"
	"investportal/pkg/types"
)

// DefaultDuration is how long a notification stays when no duration is given.
const DefaultDuration = 5 * time.Second

type entry struct {
	notification types.Notification
	timer        *time.Timer
}

// Queue is an ordered set of short-lived notifications. Each entry removes
// itself when its own duration elapses.
type Queue struct {
	mu      sync.Mutex
	entries []*entry
	onEmpty func()
}

func NewQueue() *Queue {
	return &Queue{}
}

// Add appends a notification and returns its generated id. A zero or
// negative duration means DefaultDuration.
func (q *Queue) Add(severity types.Severity, title, message string, duration time.Duration) string {
	if duration <= 0 {
		duration = DefaultDuration
	}

	n := types.Notification{
		ID:        utils.NanoIDSize(16),
		Severity:  severity,
		Title:     title,
		Message:   message,
		Duration:  duration,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	e := &entry{notification: n}
	q.entries = append(q.entries, e)
	e.timer = time.AfterFunc(duration, func() { q.remove(n.ID) })
	q.mu.Unlock()

	return n.ID
}

func (q *Queue) Success(title, message string) string {
	return q.Add(types.SeveritySuccess, title, message, 0)
}

func (q *Queue) Error(title, message string) string {
	return q.Add(types.SeverityError, title, message, 0)
}

func (q *Queue) Info(title, message string) string {
	return q.Add(types.SeverityInfo, title, message, 0)
}

func (q *Queue) Warning(title, message string) string {
	return q.Add(types.SeverityWarning, title, message, 0)
}

// Dismiss removes one notification before its duration is up. Other entries
// and their timers are untouched.
func (q *Queue) Dismiss(id string) bool {
	return q.remove(id)
}

func (q *Queue) ClearAll() {
	q.mu.Lock()
	for _, e := range q.entries {
		e.timer.Stop()
	}
	q.entries = nil
	onEmpty := q.onEmpty
	q.mu.Unlock()

	if onEmpty != nil {
		onEmpty()
	}
}

// List returns the live notifications, oldest first.
func (q *Queue) List() []types.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]types.Notification, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.notification
	}
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *Queue) remove(id string) bool {
	q.mu.Lock()

	idx := -1
	for i, e := range q.entries {
		if e.notification.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return false
	}

	q.entries[idx].timer.Stop()
	q.entries = append(q.entries[:idx], q.entries[idx+1:]...)
	empty := len(q.entries) == 0
	onEmpty := q.onEmpty
	q.mu.Unlock()

	if empty && onEmpty != nil {
		onEmpty()
	}
	return true
}
