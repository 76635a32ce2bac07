// Package watcher reports filesystem changes under a directory as
// deduplicated batches on a fixed cadence.
//
// A Session runs two goroutines. The producer receives notifications from
// the OS (fsnotify, or a periodic snapshot diff in poll mode) and adds them
// to a pending set keyed by (type, path). The cadence loop swaps that set
// out every Interval and sends it on Batches as one Batch. While the
// consumer is slow, events keep coalescing in the set; nothing is dropped.
//
// Directory events are never reported, and paths under .git or
// node_modules are not watched.
//
// Usage:
//
//	s, err := watcher.Watch(ctx, "/path/to/project", watcher.Options{})
//	if err != nil {
//	    return err // errors.Is(err, errors.ErrWatchFailed)
//	}
//	defer s.Stop()
//
//	for batch := range s.Batches() {
//	    for _, ev := range batch {
//	        fmt.Println(ev.Type, ev.Path)
//	    }
//	}
package watcher
