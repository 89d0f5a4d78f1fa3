package main

import (
	"time"

	"github.com/lumen-dev/lumen/pkg/reactive"
)

// startDemoWorkload runs a small reactive graph on its own goroutine so the
// inspector has flush activity to display. All reactive work, including the
// deferred drains, stays on that one goroutine.
func startDemoWorkload() func() {
	stop := make(chan struct{})

	go func() {
		var pending []func()
		reactive.Config.ScheduleFlush = func(run func()) {
			pending = append(pending, run)
		}
		drain := func() {
			for len(pending) > 0 {
				run := pending[0]
				pending = pending[1:]
				run()
			}
		}

		m := reactive.NewMap(map[string]any{"tick": 0, "phase": 0})
		reactive.Observe(m, false)

		vm := reactive.NewOwner()
		reactive.NewWatcher(vm, func(*reactive.Owner) any {
			return m.Get("tick")
		}, func(newVal, oldVal any) {}, nil, false)
		reactive.NewWatcher(vm, func(*reactive.Owner) any {
			return m.Get("phase")
		}, func(newVal, oldVal any) {}, nil, false)

		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				i++
				m.Set("tick", i)
				if i%4 == 0 {
					m.Set("phase", i/4)
				}
				drain()
			}
		}
	}()

	return func() { close(stop) }
}
