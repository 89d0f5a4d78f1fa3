package reactive

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFlushAscendingIDOrder(t *testing.T) {
	h := newTestHarness(t)

	m := observedMap(t, map[string]any{"a": 0, "b": 0, "c": 0})

	var order []int
	makeWatcher := func(key string, tag int) {
		NewWatcher(nil, func(*Owner) any {
			return m.Get(key)
		}, func(newVal, oldVal any) {
			order = append(order, tag)
		}, nil, false)
	}
	makeWatcher("a", 1)
	makeWatcher("b", 2)
	makeWatcher("c", 3)

	// Dirty them in the order 3, 1, 2; the flush must run 1, 2, 3.
	m.Set("c", 1)
	m.Set("a", 1)
	m.Set("b", 1)
	h.drain()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected run order [1 2 3], got %v", order)
	}
}

func TestFlushReenqueueProcessedWatcher(t *testing.T) {
	h := newTestHarness(t)

	m := observedMap(t, map[string]any{"early": 0, "late": 0})

	var order []string
	reenqueued := false
	NewWatcher(nil, func(*Owner) any {
		return m.Get("early")
	}, func(newVal, oldVal any) {
		order = append(order, "early")
	}, nil, false)
	NewWatcher(nil, func(*Owner) any {
		return m.Get("late")
	}, func(newVal, oldVal any) {
		order = append(order, "late")
		if !reenqueued {
			reenqueued = true
			// Re-dirty the already-processed lower-id watcher.
			m.Set("early", m.Get("early").(int)+100)
		}
	}, nil, false)

	m.Set("early", 1)
	m.Set("late", 1)
	h.drain()

	want := []string{"early", "late", "early"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestFlushDeduplicatesWatcher(t *testing.T) {
	h := newTestHarness(t)

	m := observedMap(t, map[string]any{"a": 0, "b": 0})

	calls := 0
	NewWatcher(nil, func(*Owner) any {
		return m.Get("a").(int) + m.Get("b").(int)
	}, func(newVal, oldVal any) {
		calls++
	}, nil, false)

	m.Set("a", 1)
	m.Set("b", 1)
	m.Set("a", 2)
	h.drain()

	if calls != 1 {
		t.Fatalf("expected one batched run, got %d", calls)
	}
}

func TestInfiniteLoopGuard(t *testing.T) {
	h := newTestHarness(t)

	m := observedMap(t, map[string]any{"n": 0})

	runs := 0
	NewWatcher(nil, func(*Owner) any {
		return m.Get("n")
	}, func(newVal, oldVal any) {
		runs++
		// Mutating the watched key re-queues this watcher forever.
		m.Set("n", m.Get("n").(int)+1)
	}, &WatcherOptions{User: true}, false)

	m.Set("n", 1)
	h.drain()

	if runs != MaxUpdateCount+1 {
		t.Fatalf("expected the guard to stop after %d runs, got %d", MaxUpdateCount+1, runs)
	}
	found := false
	for _, msg := range h.warnings {
		if strings.Contains(msg, "infinite update loop") && strings.Contains(msg, "fn") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an infinite-loop warning naming the watcher, got %v", h.warnings)
	}
	if len(h.errors) != 1 || !errors.Is(h.errors[0].err, ErrInfiniteUpdate) {
		t.Fatalf("expected ErrInfiniteUpdate routed to the error handler, got %v", h.errors)
	}

	// The aborted flush must not poison subsequent ones.
	calls := 0
	m2 := observedMap(t, map[string]any{"x": 0})
	NewWatcher(nil, func(*Owner) any {
		return m2.Get("x")
	}, func(newVal, oldVal any) {
		calls++
	}, nil, false)
	m2.Set("x", 1)
	h.drain()
	if calls != 1 {
		t.Fatalf("subsequent flush should run normally, got %d calls", calls)
	}
}

func TestBeforeHookPrecedesRun(t *testing.T) {
	h := newTestHarness(t)

	m := observedMap(t, map[string]any{"a": 0})

	var order []string
	NewWatcher(nil, func(*Owner) any {
		return m.Get("a")
	}, func(newVal, oldVal any) {
		order = append(order, "run")
	}, &WatcherOptions{Before: func() {
		order = append(order, "before")
	}}, false)

	m.Set("a", 1)
	h.drain()

	if len(order) != 2 || order[0] != "before" || order[1] != "run" {
		t.Fatalf("expected [before run], got %v", order)
	}
}

func TestUpdatedHookDelivery(t *testing.T) {
	h := newTestHarness(t)

	m := NewMap(map[string]any{"a": 0})
	vm := NewOwner()
	vm.SetRootData(m)
	vm.MarkMounted()

	NewWatcher(vm, func(owner *Owner) any {
		return owner.Data().Get("a")
	}, func(newVal, oldVal any) {}, nil, true)

	m.Set("a", 1)
	h.drain()

	if len(h.hooks) != 1 || h.hooks[0].kind != HookUpdated || h.hooks[0].vm != vm {
		t.Fatalf("expected one updated hook for the owner, got %v", h.hooks)
	}
}

func TestUpdatedHookSkipsUnmounted(t *testing.T) {
	h := newTestHarness(t)

	m := NewMap(map[string]any{"a": 0})
	vm := NewOwner()
	vm.SetRootData(m)

	NewWatcher(vm, func(owner *Owner) any {
		return owner.Data().Get("a")
	}, func(newVal, oldVal any) {}, nil, true)

	m.Set("a", 1)
	h.drain()

	if len(h.hooks) != 0 {
		t.Fatalf("unmounted owner must not receive updated hooks, got %v", h.hooks)
	}
}

func TestActivatedHookDelivery(t *testing.T) {
	h := newTestHarness(t)

	m := observedMap(t, map[string]any{"a": 0})
	NewWatcher(nil, func(*Owner) any {
		return m.Get("a")
	}, func(newVal, oldVal any) {}, nil, false)

	vm := NewOwner()
	vm.SetInactive(true)

	m.Set("a", 1)
	QueueActivated(vm)
	h.drain()

	if vm.IsInactive() {
		t.Fatal("activated owner should no longer be inactive")
	}
	if len(h.hooks) != 1 || h.hooks[0].kind != HookActivated || h.hooks[0].vm != vm {
		t.Fatalf("expected one activated hook, got %v", h.hooks)
	}
}

func TestSyncConfigFlushesInline(t *testing.T) {
	newTestHarness(t)
	Config.Async = false

	m := observedMap(t, map[string]any{"a": 0})

	calls := 0
	NewWatcher(nil, func(*Owner) any {
		return m.Get("a")
	}, func(newVal, oldVal any) {
		calls++
	}, nil, false)

	m.Set("a", 1)
	if calls != 1 {
		t.Fatalf("expected inline flush in sync mode, got %d calls", calls)
	}
}

func TestFlushTimestampAdvances(t *testing.T) {
	h := newTestHarness(t)

	m := observedMap(t, map[string]any{"a": 0})
	NewWatcher(nil, func(*Owner) any {
		return m.Get("a")
	}, func(newVal, oldVal any) {}, nil, false)

	before := time.Now()
	m.Set("a", 1)
	h.drain()

	if CurrentFlushTimestamp().Before(before) {
		t.Fatal("flush timestamp should be taken at flush start")
	}
}

type recordingObserver struct {
	starts  int
	runs    int
	ends    int
	aborts  int
	lastRan int
}

func (r *recordingObserver) FlushStart(at time.Time)                 { r.starts++ }
func (r *recordingObserver) WatcherRan(id uint64, expression string) { r.runs++ }
func (r *recordingObserver) LoopAborted(id uint64, expression string) {
	r.aborts++
}
func (r *recordingObserver) FlushEnd(at time.Time, watchersRan int) {
	r.ends++
	r.lastRan = watchersRan
}

func TestFlushObserverEvents(t *testing.T) {
	h := newTestHarness(t)

	obs := &recordingObserver{}
	unregister := RegisterFlushObserver(obs)
	defer unregister()

	m := observedMap(t, map[string]any{"a": 0, "b": 0})
	NewWatcher(nil, func(*Owner) any { return m.Get("a") }, func(newVal, oldVal any) {}, nil, false)
	NewWatcher(nil, func(*Owner) any { return m.Get("b") }, func(newVal, oldVal any) {}, nil, false)

	m.Set("a", 1)
	m.Set("b", 1)
	h.drain()

	if obs.starts != 1 || obs.ends != 1 {
		t.Fatalf("expected one flush, got starts=%d ends=%d", obs.starts, obs.ends)
	}
	if obs.runs != 2 || obs.lastRan != 2 {
		t.Fatalf("expected 2 watcher runs, got runs=%d lastRan=%d", obs.runs, obs.lastRan)
	}
	if obs.aborts != 0 {
		t.Fatalf("expected no aborts, got %d", obs.aborts)
	}
}
