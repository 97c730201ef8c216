// Package backtrace keeps a bounded ring of captured stack traces keyed by
// the error they were recorded for.
//
// The ring is deliberately lossy: once more than capacity entries have been
// recorded, the oldest slots are recycled whether or not anyone drained them.
// Retrieval is best-effort and a miss is never an error.
package backtrace

import (
	"reflect"
	"runtime/debug"
	"sync"
)

// DefaultCapacity is the slot count used when a registry is constructed with
// a non-positive capacity.
const DefaultCapacity = 100

type slot struct {
	trace string
	owner error
}

// Registry is a fixed-capacity ring of (trace, owner) pairs.
//
// Owners are held only until their slot is drained by RemoveAll or recycled
// by wraparound, so the registry never pins an error beyond the ring.
type Registry struct {
	mu     sync.Mutex
	slots  []slot
	cursor uint64
}

// NewRegistry returns a registry with the given slot capacity.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{slots: make([]slot, capacity)}
}

// Capacity reports the fixed slot count.
func (r *Registry) Capacity() int {
	return len(r.slots)
}

// Add records the caller's stack against err. The stack is captured before
// the lock is taken so the trace reflects the Add call site. Whatever was in
// the target slot is overwritten, drained or not. A nil err is ignored.
func (r *Registry) Add(err error) {
	if err == nil {
		return
	}
	trace := string(debug.Stack())

	r.mu.Lock()
	defer r.mu.Unlock()
	idx := int(r.cursor % uint64(len(r.slots)))
	r.slots[idx] = slot{trace: trace, owner: err}
	r.cursor++
}

// RemoveAll drains every trace still recorded for err and clears the matched
// slots. Traces come back oldest-first. Owners are matched by interface
// equality, so value-typed errors that compare equal coalesce; owners whose
// dynamic type is incomparable match by deep structural equality instead. At
// most capacity slots are examined; anything older has already been recycled.
func (r *Registry) RemoveAll(err error) []string {
	if err == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	span := uint64(len(r.slots))
	if r.cursor < span {
		span = r.cursor
	}

	var traces []string
	for back := uint64(1); back <= span; back++ {
		idx := int((r.cursor - back) % uint64(len(r.slots)))
		s := &r.slots[idx]
		if s.owner == nil || !ownersEqual(s.owner, err) {
			continue
		}
		traces = append(traces, s.trace)
		*s = slot{}
	}

	// The scan ran newest to oldest; callers want chronological order.
	for i, j := 0, len(traces)-1; i < j; i, j = i+1, j-1 {
		traces[i], traces[j] = traces[j], traces[i]
	}
	return traces
}

// ownersEqual matches a slot owner against the queried error. Plain interface
// equality panics when both sides share an incomparable dynamic type (a
// struct error carrying a slice, say), so those fall back to reflect.DeepEqual
// and keep the same structural-match semantics. Both arguments are non-nil.
func ownersEqual(owner, err error) bool {
	ownerType := reflect.TypeOf(owner)
	if ownerType != reflect.TypeOf(err) {
		return false
	}
	if ownerType.Comparable() {
		return owner == err
	}
	return reflect.DeepEqual(owner, err)
}

// Len reports how many slots currently hold an undrained entry.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.slots {
		if s.owner != nil {
			n++
		}
	}
	return n
}
