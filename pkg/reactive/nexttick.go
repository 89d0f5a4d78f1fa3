package reactive

// The deferred-flush seam. Callbacks accumulate until a drain is scheduled
// through Config.ScheduleFlush; the host plugs its microtask runner in
// there. Callbacks run in registration order on whatever goroutine the
// runner provides, one drain at a time.

var (
	tickCallbacks []func()
	tickPending   bool
)

// NextTick schedules fn to run after the current batch of reactive work,
// on the host's microtask runner. Flushes of the scheduler queue go through
// the same channel, so a callback registered after a mutation observes the
// post-flush world.
func NextTick(fn func()) {
	nextTick(fn)
}

func nextTick(fn func()) {
	tickCallbacks = append(tickCallbacks, fn)
	if tickPending {
		return
	}
	tickPending = true
	Config.ScheduleFlush(flushTickCallbacks)
}

func flushTickCallbacks() {
	tickPending = false
	callbacks := tickCallbacks
	tickCallbacks = nil
	for _, cb := range callbacks {
		cb()
	}
}

func resetNextTickState() {
	tickCallbacks = nil
	tickPending = false
}
