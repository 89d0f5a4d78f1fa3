package reactive

import "testing"

// testHarness pins the scheduler to a manual drain and captures diagnostics,
// restoring all process-wide state when the test finishes.
type testHarness struct {
	pending  []func()
	warnings []string
	errors   []capturedError
	hooks    []capturedHook
}

type capturedError struct {
	err  error
	vm   *Owner
	site string
}

type capturedHook struct {
	kind HookKind
	vm   *Owner
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	h := &testHarness{}
	resetSchedulerState()
	resetNextTickState()

	prevSchedule := Config.ScheduleFlush
	prevWarn := Config.Warn
	prevError := Config.ErrorHandler
	prevHook := Config.LifecycleHook
	prevAsync := Config.Async
	prevObserving := shouldObserve

	Config.ScheduleFlush = func(run func()) {
		h.pending = append(h.pending, run)
	}
	Config.Warn = func(msg string, vm *Owner) {
		h.warnings = append(h.warnings, msg)
	}
	Config.ErrorHandler = func(err error, vm *Owner, site string) {
		h.errors = append(h.errors, capturedError{err: err, vm: vm, site: site})
	}
	Config.LifecycleHook = func(kind HookKind, vm *Owner) {
		h.hooks = append(h.hooks, capturedHook{kind: kind, vm: vm})
	}

	t.Cleanup(func() {
		Config.ScheduleFlush = prevSchedule
		Config.Warn = prevWarn
		Config.ErrorHandler = prevError
		Config.LifecycleHook = prevHook
		Config.Async = prevAsync
		shouldObserve = prevObserving
		resetSchedulerState()
		resetNextTickState()
	})
	return h
}

// drain runs every scheduled microtask, including ones scheduled while
// draining.
func (h *testHarness) drain() {
	for len(h.pending) > 0 {
		run := h.pending[0]
		h.pending = h.pending[1:]
		run()
	}
}

// observedMap builds and observes a record in one step.
func observedMap(t *testing.T, entries map[string]any) *Map {
	t.Helper()
	m := NewMap(entries)
	if Observe(m, false) == nil {
		t.Fatal("expected map to be observed")
	}
	return m
}
