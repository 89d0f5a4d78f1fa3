package reactive

import "log/slog"

// HookKind identifies a lifecycle notification delivered by the scheduler
// after a flush completes.
type HookKind uint8

const (
	// HookUpdated is delivered to a component whose render watcher ran
	// during the flush.
	HookUpdated HookKind = iota + 1

	// HookActivated is delivered to a kept-alive component that was
	// re-activated during the flush.
	HookActivated
)

// String returns a human-readable name for the hook kind.
func (k HookKind) String() string {
	switch k {
	case HookUpdated:
		return "Updated"
	case HookActivated:
		return "Activated"
	default:
		return "Unknown"
	}
}

// Config is the process-wide configuration surface of the reactive core.
// All fields are read at use time, so hosts may swap handlers during setup.
// It is not safe to mutate Config while watchers are evaluating.
var Config = struct {
	// Async defers watcher runs to a scheduled flush. When false, flushes
	// run inline inside the first enqueue and dependency notifications are
	// dispatched in ascending watcher id order.
	Async bool

	// Silent suppresses diagnostic warnings.
	Silent bool

	// Warn receives diagnostic warnings (misconfigured watch paths,
	// reactive-key additions on root records, infinite update loops).
	// vm may be nil.
	Warn func(msg string, vm *Owner)

	// ErrorHandler receives errors recovered from user-supplied getters and
	// callbacks, together with the owning component and a description of the
	// call site. It also receives ErrInfiniteUpdate, for any watcher, when the
	// loop guard aborts a flush. Panics from internal watchers are never
	// routed here; they propagate to the caller.
	ErrorHandler func(err error, vm *Owner, site string)

	// LifecycleHook delivers updated/activated notifications after a flush.
	// The host framework supplies this; nil disables delivery.
	LifecycleHook func(kind HookKind, vm *Owner)

	// ScheduleFlush schedules the deferred callback drain. The host supplies
	// its microtask runner here; run must be invoked exactly once, on the
	// goroutine that drives the reactive graph. The default invokes run
	// inline, which keeps every flush on the calling goroutine at the cost
	// of flushing on the first deferred callback; hosts with a real
	// microtask queue substitute their runner to regain same-turn batching.
	ScheduleFlush func(run func())

	// IsServerRendering reports whether the host is rendering on the server,
	// in which case new observers are not created.
	IsServerRendering func() bool
}{
	Async: true,
	Warn: func(msg string, vm *Owner) {
		if vm != nil {
			slog.Warn(msg, "owner", vm.ID())
			return
		}
		slog.Warn(msg)
	},
	ScheduleFlush: func(run func()) {
		run()
	},
}

// warn emits a one-shot diagnostic through the configured handler.
func warn(msg string, vm *Owner) {
	if Config.Silent || Config.Warn == nil {
		return
	}
	Config.Warn(msg, vm)
}
