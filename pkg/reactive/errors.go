package reactive

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInfiniteUpdate is reported when a single watcher exceeds MaxUpdateCount
// runs within one flush and the flush is aborted. The scheduler routes it
// through the configured error handler, wrapped with the offending watcher's
// id and expression; match it with errors.Is.
var ErrInfiniteUpdate = errors.New("lumen: infinite update loop")

// toError converts a recovered panic value into an error.
func toError(r any) error {
	switch v := r.(type) {
	case error:
		return v
	default:
		return fmt.Errorf("lumen: %v", v)
	}
}

// handleError routes an error from user-supplied code to the configured
// handler. When no handler is configured the error is logged, never
// swallowed silently.
func handleError(err error, vm *Owner, site string) {
	if Config.ErrorHandler != nil {
		Config.ErrorHandler(err, vm, site)
		return
	}
	if vm != nil {
		slog.Error("error in "+site, "err", err, "owner", vm.ID())
		return
	}
	slog.Error("error in "+site, "err", err)
}

// invokeWithErrorHandling runs a user-supplied function, recovering panics
// and routing them through handleError.
func invokeWithErrorHandling(fn func(), vm *Owner, site string) {
	defer func() {
		if r := recover(); r != nil {
			handleError(toError(r), vm, site)
		}
	}()
	fn()
}
