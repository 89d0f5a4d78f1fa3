// Package reactive provides the dependency-tracking core for the Lumen
// framework.
//
// The reactive system is push-based and fine-grained: reading a key of a
// reactive record (or the length of a reactive list) while a Watcher is
// evaluating subscribes that Watcher to the value, and writing the value
// later notifies every subscriber. Notified watchers are batched into a
// process-wide queue and drained in creation order on the next tick.
//
// # Core Types
//
// Map is a reactive record:
//
//	m := reactive.NewMap(map[string]any{"count": 0})
//	reactive.Observe(m, false)
//	v := m.Get("count") // read (subscribes the evaluating watcher)
//	m.Set("count", 5)   // write (notifies subscribers)
//
// List is a reactive ordered sequence whose mutators (Push, Pop, Unshift,
// Shift, Splice, Sort, Reverse) notify a structural dependency:
//
//	l := reactive.NewList([]any{1, 2, 3})
//	reactive.Observe(l, false)
//	l.Push(4) // notifies watchers that read the list
//
// Watcher is a reactive computation bound to a callback:
//
//	w := reactive.NewWatcher(vm, func(*reactive.Owner) any {
//	    return m.Get("count")
//	}, func(newVal, oldVal any) {
//	    fmt.Println("count changed:", oldVal, "->", newVal)
//	}, nil, false)
//
// # Scheduling
//
// Watcher updates are deduplicated and drained in ascending watcher id on
// the next tick. Synchronous watchers run inside the notification instead.
// A watcher re-queued by its own side effects more than MaxUpdateCount
// times in one flush aborts the flush with a diagnostic.
//
// # Execution Model
//
// The core assumes a single reactivity goroutine. The target stack is keyed
// by goroutine id so nested evaluation works, but the scheduler queue and
// its flags are process-wide state that must not be driven from multiple
// goroutines concurrently.
package reactive
