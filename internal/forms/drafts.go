package forms

import (
	"sync"
	"time"

	"investportal/pkg/types"
)

// DraftStore keeps the last unsent form state per session so a failed
// submission can be retried without attaching the files again.
//
// The store holds at most budget units in total, measured by weigh. When a
// new draft does not fit, the drafts closest to expiry are evicted first.
type DraftStore[T any] struct {
	ttl    time.Duration
	budget int64
	weigh  func(T) int64
	now    func() time.Time

	mu     sync.Mutex
	used   int64
	drafts map[string]draft[T]
}

type draft[T any] struct {
	state   T
	weight  int64
	expires time.Time
}

// NewDraftStore returns a store bounded by budget. A nil weigh counts every
// draft as 1, which turns budget into an entry limit.
func NewDraftStore[T any](ttl time.Duration, budget int64, weigh func(T) int64) *DraftStore[T] {
	if weigh == nil {
		weigh = func(T) int64 { return 1 }
	}
	return &DraftStore[T]{
		ttl:    ttl,
		budget: budget,
		weigh:  weigh,
		now:    time.Now,
		drafts: make(map[string]draft[T]),
	}
}

// Save stores state under key and reports whether it fit in the budget.
// A draft heavier than the whole budget is not kept, and any earlier draft
// under the same key is dropped with it.
func (d *DraftStore[T]) Save(key string, state T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sweep()
	d.remove(key)

	weight := d.weigh(state)
	if weight > d.budget {
		return false
	}

	for d.used+weight > d.budget {
		d.evictOldest()
	}

	d.drafts[key] = draft[T]{state: state, weight: weight, expires: d.now().Add(d.ttl)}
	d.used += weight
	return true
}

func (d *DraftStore[T]) Load(key string) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dr, ok := d.drafts[key]
	if !ok || d.now().After(dr.expires) {
		d.remove(key)
		var zero T
		return zero, false
	}
	return dr.state, true
}

func (d *DraftStore[T]) Delete(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.remove(key)
}

func (d *DraftStore[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.drafts)
}

// Used is the total weight currently held.
func (d *DraftStore[T]) Used() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.used
}

func (d *DraftStore[T]) remove(key string) {
	if dr, ok := d.drafts[key]; ok {
		d.used -= dr.weight
		delete(d.drafts, key)
	}
}

func (d *DraftStore[T]) evictOldest() {
	var (
		oldest  string
		expires time.Time
		found   bool
	)
	for k, dr := range d.drafts {
		if !found || dr.expires.Before(expires) {
			oldest, expires, found = k, dr.expires, true
		}
	}
	if found {
		d.remove(oldest)
	}
}

func (d *DraftStore[T]) sweep() {
	now := d.now()
	for k, dr := range d.drafts {
		if now.After(dr.expires) {
			d.remove(k)
		}
	}
}

// UploadBytes is the in-memory size of the files held by the state.
func (s *State) UploadBytes() int64 {
	return uploadBytes(s.Uploads)
}

func (s *WomenInitiativeState) UploadBytes() int64 {
	return uploadBytes(s.Uploads)
}

func uploadBytes[K comparable](uploads map[K]*types.Upload) int64 {
	var n int64
	for _, u := range uploads {
		n += int64(len(u.Data))
	}
	return n
}

// Inherit copies uploads from an earlier draft of the same type into slots
// this submission left empty.
func (s *State) Inherit(prev *State) {
	if prev == nil || prev.Variant.Type != s.Variant.Type {
		return
	}
	for slot, u := range prev.Uploads {
		if _, set := s.Uploads[slot]; set {
			continue
		}
		if _, rejected := s.Errors[string(slot)]; rejected {
			continue
		}
		s.Uploads[slot] = u
	}
}

func (s *WomenInitiativeState) Inherit(prev *WomenInitiativeState) {
	if prev == nil {
		return
	}
	for slot, u := range prev.Uploads {
		if _, set := s.Uploads[slot]; set {
			continue
		}
		if _, rejected := s.Errors[string(slot)]; rejected {
			continue
		}
		s.Uploads[slot] = u
	}
}

// Values returns the populated text fields keyed by name, for re-rendering.
func (s *State) Values() map[string]string {
	return valuesOf(s.Form.Fields())
}

func (s *WomenInitiativeState) Values() map[string]string {
	return valuesOf(s.Form.Fields())
}

func valuesOf(fields []types.FormField) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Name] = f.Value
	}
	return out
}
