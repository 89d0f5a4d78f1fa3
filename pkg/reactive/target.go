package reactive

import (
	"sync"

	"github.com/petermattis/goid"
)

// The target stack names the watcher whose getter is currently evaluating.
// Reactive reads attribute themselves to the top of the stack. The stack is
// keyed by goroutine id so nested evaluation on the reactivity goroutine
// (a computed watcher reading another computed watcher) restores correctly,
// and stray reads on other goroutines simply see no target.
//
// Pushing nil disables tracking; reads made underneath register nothing.
// This is used when invoking user-supplied data factories.

type targetStack struct {
	stack []*Watcher
}

var targetStacks sync.Map // goroutine id -> *targetStack

func getTargetStack() *targetStack {
	gid := goid.Get()
	if ts, ok := targetStacks.Load(gid); ok {
		return ts.(*targetStack)
	}
	ts := &targetStack{}
	targetStacks.Store(gid, ts)
	return ts
}

// PushTarget designates w as the watcher reactive reads subscribe to.
// Push nil to suppress tracking for the duration of a call.
func PushTarget(w *Watcher) {
	ts := getTargetStack()
	ts.stack = append(ts.stack, w)
}

// PopTarget restores the previously evaluating watcher.
func PopTarget() {
	gid := goid.Get()
	v, ok := targetStacks.Load(gid)
	if !ok {
		return
	}
	ts := v.(*targetStack)
	if n := len(ts.stack); n > 0 {
		ts.stack = ts.stack[:n-1]
	}
	if len(ts.stack) == 0 {
		targetStacks.Delete(gid)
	}
}

// currentTarget returns the watcher on top of the stack, or nil when no
// watcher is evaluating (or tracking is suppressed).
func currentTarget() *Watcher {
	v, ok := targetStacks.Load(goid.Get())
	if !ok {
		return nil
	}
	ts := v.(*targetStack)
	if n := len(ts.stack); n > 0 {
		return ts.stack[n-1]
	}
	return nil
}
