package notify

import (
	"sync"
	"time"

	"investportal/pkg/types"
)

// Hub keeps one Queue per browser session. A session's queue is dropped once
// it has emptied.
type Hub struct {
	mu     sync.Mutex
	queues map[string]*Queue
}

func NewHub() *Hub {
	return &Hub{queues: make(map[string]*Queue)}
}

func (h *Hub) queue(key string) *Queue {
	q, ok := h.queues[key]
	if !ok {
		q = NewQueue()
		q.onEmpty = func() { h.drop(key, q) }
		h.queues[key] = q
	}
	return q
}

func (h *Hub) drop(key string, q *Queue) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.queues[key] == q && q.Len() == 0 {
		delete(h.queues, key)
	}
}

func (h *Hub) Add(key string, severity types.Severity, title, message string, duration time.Duration) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.queue(key).Add(severity, title, message, duration)
}

func (h *Hub) List(key string) []types.Notification {
	h.mu.Lock()
	q, ok := h.queues[key]
	h.mu.Unlock()

	if !ok {
		return []types.Notification{}
	}
	return q.List()
}

func (h *Hub) Dismiss(key, id string) bool {
	h.mu.Lock()
	q, ok := h.queues[key]
	h.mu.Unlock()

	if !ok {
		return false
	}
	return q.Dismiss(id)
}

func (h *Hub) ClearAll(key string) {
	h.mu.Lock()
	q, ok := h.queues[key]
	h.mu.Unlock()

	if ok {
		q.ClearAll()
	}
}

// Sessions returns how many sessions currently hold notifications.
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queues)
}
