package reactive

import (
	"fmt"
	"sort"
	"time"
)

// MaxUpdateCount is the maximum number of times a single watcher may be
// re-queued within one flush before the flush aborts with a diagnostic.
const MaxUpdateCount = 100

// Scheduler state is process-wide and driven from the single reactivity
// goroutine; nothing else mutates the queue.
var (
	queue             []*Watcher
	activatedChildren []*Owner
	has               = map[uint64]bool{}
	circular          = map[uint64]int{}
	waiting           bool
	flushing          bool
	index             int

	flushTimestamp time.Time
)

// CurrentFlushTimestamp returns the wall-clock time at which the current (or
// most recent) flush started. The host uses it to disambiguate event
// listeners attached during a flush from events with earlier timestamps.
func CurrentFlushTimestamp() time.Time {
	return flushTimestamp
}

func resetSchedulerState() {
	queue = queue[:0]
	activatedChildren = activatedChildren[:0]
	has = map[uint64]bool{}
	circular = map[uint64]int{}
	waiting = false
	flushing = false
	index = 0
}

// queueWatcher enqueues a dirty watcher for the next flush. Watchers already
// queued are skipped. A watcher queued while the flush is draining is
// inserted in id order strictly after the current position, so it is seen in
// the same flush but never re-runs ahead of the drain.
func queueWatcher(w *Watcher) {
	if has[w.id] {
		return
	}
	has[w.id] = true

	if !flushing {
		queue = append(queue, w)
	} else {
		i := len(queue) - 1
		for i > index && queue[i].id > w.id {
			i--
		}
		queue = append(queue, nil)
		copy(queue[i+2:], queue[i+1:])
		queue[i+1] = w
	}

	if !waiting {
		waiting = true
		if !Config.Async {
			flushSchedulerQueue()
			return
		}
		nextTick(flushSchedulerQueue)
	}
}

// QueueActivated records a kept-alive component re-activated during a patch.
// Its activation hook is delivered after the queue drains.
func QueueActivated(vm *Owner) {
	vm.inactive = false
	activatedChildren = append(activatedChildren, vm)
}

// flushSchedulerQueue drains the queue in ascending watcher id. Parents were
// created before children, so parents update first, and a component's user
// watchers run before its render watcher. Watchers belonging to destroyed
// components short-circuit inside run.
func flushSchedulerQueue() {
	flushTimestamp = time.Now()
	flushing = true

	sort.Slice(queue, func(i, j int) bool { return queue[i].id < queue[j].id })
	notifyFlushStart(flushTimestamp)

	// The length is re-read every iteration: running watchers may enqueue
	// more.
	ran := 0
	for index = 0; index < len(queue); index++ {
		w := queue[index]
		if w.before != nil {
			w.before()
		}
		id := w.id
		delete(has, id)
		w.run()
		ran++
		notifyWatcherRan(id, w.expression)

		// A watcher re-queued during its own run is making no progress
		// after enough repeats.
		if has[id] {
			circular[id]++
			if circular[id] > MaxUpdateCount {
				msg := "You may have an infinite update loop in a component render function."
				if w.user {
					msg = fmt.Sprintf("You may have an infinite update loop in watcher with expression %q.", w.expression)
				}
				warn(msg, w.vm)
				handleError(
					fmt.Errorf("%w: watcher %d (%s)", ErrInfiniteUpdate, id, w.expression),
					w.vm, "scheduler flush")
				notifyLoopAborted(id, w.expression)
				break
			}
		}
	}

	// Snapshot before resetting state; hooks may schedule new work.
	activatedQueue := make([]*Owner, len(activatedChildren))
	copy(activatedQueue, activatedChildren)
	updatedQueue := make([]*Watcher, len(queue))
	copy(updatedQueue, queue)

	resetSchedulerState()

	callActivatedHooks(activatedQueue)
	callUpdatedHooks(updatedQueue)
	notifyFlushEnd(time.Now(), ran)
}

func callUpdatedHooks(watchers []*Watcher) {
	if Config.LifecycleHook == nil {
		return
	}
	for i := len(watchers) - 1; i >= 0; i-- {
		w := watchers[i]
		vm := w.vm
		if vm != nil && vm.renderWatcher == w && vm.mounted && !vm.destroyed {
			Config.LifecycleHook(HookUpdated, vm)
		}
	}
}

func callActivatedHooks(owners []*Owner) {
	for _, vm := range owners {
		vm.inactive = false
		if Config.LifecycleHook != nil {
			Config.LifecycleHook(HookActivated, vm)
		}
	}
}

// SchedulerState is a point-in-time snapshot of the scheduler, exposed for
// inspection tooling.
type SchedulerState struct {
	QueueLength int       `json:"queue_length"`
	Waiting     bool      `json:"waiting"`
	Flushing    bool      `json:"flushing"`
	Index       int       `json:"index"`
	LastFlushAt time.Time `json:"last_flush_at"`
}

// SchedulerSnapshot returns the current scheduler state.
func SchedulerSnapshot() SchedulerState {
	return SchedulerState{
		QueueLength: len(queue),
		Waiting:     waiting,
		Flushing:    flushing,
		Index:       index,
		LastFlushAt: flushTimestamp,
	}
}
