package watcher

import "sync"

// pendingSet accumulates distinct events between cadence ticks. The
// producer adds under the mutex; the cadence loop swaps the whole map out.
type pendingSet struct {
	mu     sync.Mutex
	events map[ChangeEvent]struct{}
}

func newPendingSet() *pendingSet {
	return &pendingSet{events: make(map[ChangeEvent]struct{})}
}

// Add records ev. Repeats within a window collapse to one entry.
func (p *pendingSet) Add(ev ChangeEvent) {
	p.mu.Lock()
	p.events[ev] = struct{}{}
	p.mu.Unlock()
}

// Len returns the number of distinct pending events.
func (p *pendingSet) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// Drain swaps in an empty set and returns the old contents as a sorted
// Batch, or nil when nothing is pending.
func (p *pendingSet) Drain() Batch {
	p.mu.Lock()
	snapshot := p.events
	if len(snapshot) > 0 {
		p.events = make(map[ChangeEvent]struct{})
	}
	p.mu.Unlock()

	if len(snapshot) == 0 {
		return nil
	}

	batch := make(Batch, 0, len(snapshot))
	for ev := range snapshot {
		batch = append(batch, ev)
	}
	batch.sort()
	return batch
}

// mergeBatches unions a and b without duplicates, sorted.
func mergeBatches(a, b Batch) Batch {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	seen := make(map[ChangeEvent]struct{}, len(a)+len(b))
	out := make(Batch, 0, len(a)+len(b))
	for _, list := range []Batch{a, b} {
		for _, ev := range list {
			if _, ok := seen[ev]; ok {
				continue
			}
			seen[ev] = struct{}{}
			out = append(out, ev)
		}
	}
	out.sort()
	return out
}
