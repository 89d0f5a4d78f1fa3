package reactive

import (
	"sort"
	"sync"
)

// Dep is a subscription channel. One Dep exists per reactive record key and
// one per observed container (the structural dep). Watchers subscribe by
// reading through a reactive accessor while they evaluate; a write
// broadcasts to every subscriber.
//
// The subscriber list is ordered by insertion and duplicate-free. The
// watcher side guarantees deduplication: Watcher.addDep only calls addSub
// for deps it has not seen in the current or previous evaluation.
type Dep struct {
	id uint64

	mu   sync.Mutex
	subs []*Watcher
}

func newDep() *Dep {
	return &Dep{id: nextDepID()}
}

// ID returns the unique identifier for this dep.
func (d *Dep) ID() uint64 {
	return d.id
}

func (d *Dep) addSub(w *Watcher) {
	d.mu.Lock()
	d.subs = append(d.subs, w)
	d.mu.Unlock()
}

func (d *Dep) removeSub(w *Watcher) {
	d.mu.Lock()
	for i, sub := range d.subs {
		if sub == w {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			break
		}
	}
	d.mu.Unlock()
}

// Depend records a mutual dependency between this dep and the watcher
// currently on top of the target stack, if any.
func (d *Dep) Depend() {
	if target := currentTarget(); target != nil {
		target.addDep(d)
	}
}

// Notify broadcasts a change to every subscriber.
//
// The subscriber list is snapshotted first: running a watcher can add or
// remove subscribers on this very dep, and iteration must not observe that.
// In synchronous mode the snapshot is sorted by watcher id so callbacks fire
// in creation order, matching the order the scheduler would have used.
func (d *Dep) Notify() {
	d.mu.Lock()
	subs := make([]*Watcher, len(d.subs))
	copy(subs, d.subs)
	d.mu.Unlock()

	if !Config.Async {
		sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	}
	for _, w := range subs {
		w.update()
	}
}

// subCount reports the current number of subscribers.
func (d *Dep) subCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}
