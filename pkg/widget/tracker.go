package widget

import "sync"

// Tracker is a per-class registry of live widget instances. It hands out
// monotonically increasing per-class indices and never hands out an index
// still held by a live instance, so derived names cannot collide while
// accounting stays accurate.
type Tracker struct {
	mu   sync.Mutex
	live map[string]map[int]*Widget
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{live: make(map[string]map[int]*Widget)}
}

// Acquire reserves the next free index for class and records w under it.
// The first instance of a class gets index zero.
func (t *Tracker) Acquire(class string, w *Widget) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	instances := t.live[class]
	if instances == nil {
		instances = make(map[int]*Widget)
		t.live[class] = instances
	}

	index := len(instances)
	for _, taken := instances[index]; taken; _, taken = instances[index] {
		index++
	}
	instances[index] = w
	return index
}

// Release frees the index held by a live instance of class.
func (t *Tracker) Release(class string, index int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if instances := t.live[class]; instances != nil {
		delete(instances, index)
	}
}

// Count returns the number of live instances of class.
func (t *Tracker) Count(class string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live[class])
}

// Instances returns the live instances of class in unspecified order.
func (t *Tracker) Instances(class string) []*Widget {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Widget, 0, len(t.live[class]))
	for _, w := range t.live[class] {
		out = append(out, w)
	}
	return out
}

// defaultTracker accounts for every widget created through New.
var defaultTracker = NewTracker()

// DefaultTracker returns the process-wide instance tracker.
func DefaultTracker() *Tracker { return defaultTracker }

// ResetForTest replaces the process-wide tracker with an empty one.
// The cleanup function should be testing.T.Cleanup or equivalent.
func ResetForTest(cleanup func(func())) {
	previous := defaultTracker
	defaultTracker = NewTracker()
	cleanup(func() { defaultTracker = previous })
}
