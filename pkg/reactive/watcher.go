package reactive

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Getter computes a watcher's value. The owning component is passed in so
// render functions and computed getters can reach their instance.
type Getter func(vm *Owner) any

// Callback receives the new and previous value after a watcher re-runs.
type Callback func(newVal, oldVal any)

// WatcherOptions selects the watcher mode.
type WatcherOptions struct {
	// Deep recursively touches every nested reactive key of the computed
	// value so the watcher subscribes transitively.
	Deep bool

	// User marks the getter and callback as user-supplied: panics from
	// either are recovered and routed to the configured error handler
	// instead of propagating.
	User bool

	// Lazy defers the first evaluation; the watcher caches nothing until
	// Evaluate is called and marks itself dirty on update instead of
	// running. Computed properties are lazy watchers.
	Lazy bool

	// Sync runs the callback inside the dependency notification instead of
	// deferring to the scheduler.
	Sync bool

	// Before runs just before the watcher re-runs during a flush.
	Before func()
}

// Watcher is a reactive computation: a getter, a callback, and the set of
// deps the getter read last time. When any dep notifies, the watcher re-runs
// through the scheduler (or inline for sync watchers), re-collecting its
// dependency set and pruning subscriptions to deps it no longer reads.
type Watcher struct {
	id         uint64
	vm         *Owner
	expression string

	getter Getter
	cb     Callback

	deps      []*Dep
	depIDs    mapset.Set[uint64]
	newDeps   []*Dep
	newDepIDs mapset.Set[uint64]

	value  any
	active bool
	dirty  bool

	deep   bool
	user   bool
	lazy   bool
	sync   bool
	before func()
}

// NewWatcher creates a watcher owned by vm. exprOrFn is either a Getter (or
// a plain func() any) or a dotted path string resolved against the owner's
// root record; a path with non-identifier segments yields a no-op getter and
// a warning. Unless lazy, the getter runs once immediately to collect the
// initial dependency set. isRenderWatcher registers the watcher as the
// owner's render watcher, which the scheduler uses for updated hooks.
func NewWatcher(vm *Owner, exprOrFn any, cb Callback, opts *WatcherOptions, isRenderWatcher bool) *Watcher {
	w := &Watcher{
		id:        nextWatcherID(),
		vm:        vm,
		cb:        cb,
		active:    true,
		depIDs:    mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs: mapset.NewThreadUnsafeSet[uint64](),
	}
	if opts != nil {
		w.deep = opts.Deep
		w.user = opts.User
		w.lazy = opts.Lazy
		w.sync = opts.Sync
		w.before = opts.Before
	}
	w.dirty = w.lazy

	switch g := exprOrFn.(type) {
	case Getter:
		w.getter = g
		w.expression = "fn"
	case func(vm *Owner) any:
		w.getter = g
		w.expression = "fn"
	case func() any:
		w.getter = func(*Owner) any { return g() }
		w.expression = "fn"
	case string:
		w.expression = g
		w.getter = parsePath(g)
		if w.getter == nil {
			w.getter = func(*Owner) any { return nil }
			warn(fmt.Sprintf(
				"Failed watching path: %q. Watcher only accepts simple dot-delimited paths.", g), vm)
		}
	default:
		w.getter = func(*Owner) any { return nil }
		warn(fmt.Sprintf("Invalid watcher getter: %T", exprOrFn), vm)
	}

	if vm != nil {
		vm.addWatcher(w)
		if isRenderWatcher {
			vm.renderWatcher = w
		}
	}
	if !w.lazy {
		w.value = w.get()
	}
	return w
}

// ID returns the watcher's creation-ordered identifier.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Expression returns the string form of the getter, for diagnostics.
func (w *Watcher) Expression() string {
	return w.expression
}

// Value returns the cached value from the last evaluation.
func (w *Watcher) Value() any {
	return w.value
}

// IsActive reports whether the watcher has not been torn down.
func (w *Watcher) IsActive() bool {
	return w.active
}

// IsDirty reports whether a lazy watcher needs re-evaluation.
func (w *Watcher) IsDirty() bool {
	return w.dirty
}

// get evaluates the getter with this watcher on the target stack, collecting
// the dependency set touched during evaluation. Deep watchers then traverse
// the result so nested deps subscribe too. Dependency cleanup always runs,
// even when a user getter panics.
func (w *Watcher) get() (value any) {
	PushTarget(w)
	defer func() {
		// Traverse before popping so nested deps attribute to this watcher.
		if w.deep {
			traverse(value)
		}
		PopTarget()
		w.cleanupDeps()
	}()

	if w.user {
		func() {
			defer func() {
				if r := recover(); r != nil {
					handleError(toError(r), w.vm, fmt.Sprintf("getter for watcher %q", w.expression))
				}
			}()
			value = w.getter(w.vm)
		}()
		return value
	}
	value = w.getter(w.vm)
	return value
}

// addDep records dep in the set being collected for the current evaluation,
// and subscribes to it unless the previous evaluation already did. The
// double-buffered id sets make re-subscription across re-evaluations free.
func (w *Watcher) addDep(dep *Dep) {
	id := dep.id
	if w.newDepIDs.Contains(id) {
		return
	}
	w.newDepIDs.Add(id)
	w.newDeps = append(w.newDeps, dep)
	if !w.depIDs.Contains(id) {
		dep.addSub(w)
	}
}

// cleanupDeps unsubscribes from every dep the latest evaluation did not
// touch, then swaps the collected set in as the current one. This prunes
// stale subscriptions when a branch of the computation stops being read.
func (w *Watcher) cleanupDeps() {
	for _, dep := range w.deps {
		if !w.newDepIDs.Contains(dep.id) {
			dep.removeSub(w)
		}
	}
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()
	w.deps, w.newDeps = w.newDeps, w.deps[:0]
}

// update dispatches a dependency notification by mode: lazy watchers just go
// dirty, sync watchers run inline, everything else enters the scheduler.
func (w *Watcher) update() {
	switch {
	case w.lazy:
		w.dirty = true
	case w.sync:
		w.run()
	default:
		queueWatcher(w)
	}
}

// run re-evaluates and fires the callback when the value changed, when the
// value is a container (deep mutation is possible behind the same
// identity), or when the watcher is deep.
func (w *Watcher) run() {
	if !w.active {
		return
	}
	value := w.get()
	if strictEqual(value, w.value) && !isContainer(value) && !w.deep {
		return
	}
	oldValue := w.value
	w.value = value
	if w.user {
		site := fmt.Sprintf("callback for watcher %q", w.expression)
		invokeWithErrorHandling(func() { w.cb(value, oldValue) }, w.vm, site)
		return
	}
	w.cb(value, oldValue)
}

// Evaluate computes a lazy watcher's value on demand and clears the dirty
// flag. Computed accessors call this when they are read while dirty.
func (w *Watcher) Evaluate() {
	w.value = w.get()
	w.dirty = false
}

// Depend re-registers every dep of this watcher on the current target, so a
// consumer of a lazy watcher transitively depends on everything the lazy
// watcher reads.
func (w *Watcher) Depend() {
	for _, dep := range w.deps {
		dep.Depend()
	}
}

// Teardown removes the watcher from its owner's list and from every dep's
// subscriber set, after which no notification can reach it.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	if w.vm != nil && !w.vm.destroying {
		w.vm.removeWatcher(w)
	}
	for _, dep := range w.deps {
		dep.removeSub(w)
	}
	w.active = false
}
