package reactive

import "testing"

func observedList(t *testing.T, items []any) *List {
	t.Helper()
	l := NewList(items)
	if Observe(l, false) == nil {
		t.Fatal("expected list to be observed")
	}
	return l
}

func TestListPushNotifiesLengthWatcher(t *testing.T) {
	h := newTestHarness(t)

	l := observedList(t, []any{1, 2, 3})

	var trace [][2]any
	NewWatcher(nil, func(*Owner) any {
		return l.Len()
	}, func(newVal, oldVal any) {
		trace = append(trace, [2]any{newVal, oldVal})
	}, nil, false)

	l.Push(4)
	h.drain()

	if len(trace) != 1 || trace[0] != [2]any{4, 3} {
		t.Fatalf("expected callback (4, 3), got %v", trace)
	}
}

func TestListDirectIndexWriteIsNotIntercepted(t *testing.T) {
	h := newTestHarness(t)

	l := observedList(t, []any{1, 2, 3})

	evals := 0
	NewWatcher(nil, func(*Owner) any {
		evals++
		return l.Len()
	}, func(newVal, oldVal any) {}, nil, false)

	evalsBefore := evals
	l.Items()[0] = 99
	h.drain()
	if evals != evalsBefore {
		t.Fatal("direct index write must not reach watchers")
	}

	// Routing the same write through SetKey passes through Splice and
	// notifies the structural dep.
	SetKey(l, 0, 7)
	h.drain()
	if evals != evalsBefore+1 {
		t.Fatalf("SetKey should re-run the watcher, evals=%d", evals)
	}
	if l.Get(0) != 7 {
		t.Fatalf("expected element 7, got %v", l.Get(0))
	}
}

func TestListSpliceRoundTrip(t *testing.T) {
	newTestHarness(t)

	l := observedList(t, []any{1, 2, 3})

	// A sync watcher re-evaluates once per structural notification.
	evals := 0
	NewWatcher(nil, func(*Owner) any {
		evals++
		_ = l.Len()
		return evals
	}, func(newVal, oldVal any) {}, &WatcherOptions{Sync: true}, false)

	before := evals
	removed := l.Splice(1, 1, "x")
	if len(removed) != 1 || removed[0] != 2 {
		t.Fatalf("expected removed [2], got %v", removed)
	}
	if l.Get(1) != "x" {
		t.Fatalf("expected x at index 1, got %v", l.Get(1))
	}
	if evals != before+1 {
		t.Fatalf("structural dep should fire exactly once, got %d extra evaluations", evals-before)
	}
}

func TestListPopShiftUnshift(t *testing.T) {
	newTestHarness(t)

	l := observedList(t, []any{1, 2, 3})

	if got := l.Pop(); got != 3 {
		t.Fatalf("expected Pop 3, got %v", got)
	}
	if got := l.Shift(); got != 1 {
		t.Fatalf("expected Shift 1, got %v", got)
	}
	if n := l.Unshift(0); n != 2 {
		t.Fatalf("expected length 2 after Unshift, got %d", n)
	}
	if l.Get(0) != 0 || l.Get(1) != 2 {
		t.Fatalf("unexpected contents %v", l.Slice())
	}
}

func TestListSortReverseNotify(t *testing.T) {
	newTestHarness(t)

	l := observedList(t, []any{3, 1, 2})
	// Slice is never identical across runs, so the callback fires on every
	// structural notification.
	calls := syncProbe(t, func() any { return l.Slice() })

	l.Sort(func(a, b any) bool { return a.(int) < b.(int) })
	if *calls != 1 {
		t.Fatalf("Sort should notify, got %d", *calls)
	}
	if l.Get(0) != 1 || l.Get(2) != 3 {
		t.Fatalf("unexpected sorted contents %v", l.Slice())
	}

	l.Reverse()
	if *calls != 2 {
		t.Fatalf("Reverse should notify, got %d", *calls)
	}
	if l.Get(0) != 3 {
		t.Fatalf("unexpected reversed contents %v", l.Slice())
	}
}

func TestListObservesInsertedContainers(t *testing.T) {
	newTestHarness(t)

	l := observedList(t, nil)
	child := NewMap(map[string]any{"x": 1})
	l.Push(child)

	if child.ob == nil {
		t.Fatal("pushed container should be observed")
	}
}

func TestListSpliceClamps(t *testing.T) {
	newTestHarness(t)

	l := observedList(t, []any{1, 2})
	removed := l.Splice(5, 10)
	if len(removed) != 0 {
		t.Fatalf("out-of-range splice should remove nothing, got %v", removed)
	}
	if l.Len() != 2 {
		t.Fatalf("list should be unchanged, got %v", l.Slice())
	}
}

func TestSetKeyExtendsList(t *testing.T) {
	newTestHarness(t)

	l := observedList(t, []any{1})
	SetKey(l, 3, "far")

	if l.Len() != 4 {
		t.Fatalf("expected length 4, got %d", l.Len())
	}
	if l.Get(3) != "far" || l.Get(1) != nil {
		t.Fatalf("unexpected contents %v", l.Slice())
	}
}

func TestDelKeyOnList(t *testing.T) {
	newTestHarness(t)

	l := observedList(t, []any{"a", "b", "c"})
	calls := syncProbe(t, func() any { return l.Len() })

	DelKey(l, 1)
	if *calls != 1 {
		t.Fatalf("DelKey should notify once, got %d", *calls)
	}
	if l.Len() != 2 || l.Get(1) != "c" {
		t.Fatalf("unexpected contents %v", l.Slice())
	}
}
