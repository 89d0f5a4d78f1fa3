package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/pkg/reactive"
)

func benchCmd() *cobra.Command {
	var (
		keys     int
		watchers int
		rounds   int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark flush throughput of the reactive core",
		Long: `Builds an observed record with a configurable number of keys, attaches
watchers that each read one of those keys, then repeatedly mutates the
record and drains the scheduler, sampling flush latency.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(keys, watchers, rounds)
		},
	}

	cmd.Flags().IntVar(&keys, "keys", 100, "Number of reactive keys")
	cmd.Flags().IntVar(&watchers, "watchers", 1000, "Number of watchers")
	cmd.Flags().IntVar(&rounds, "rounds", 1000, "Number of mutate+flush rounds")

	return cmd
}

func runBench(keys, watchers, rounds int) error {
	// Drive the flush by hand so each round is one deterministic drain.
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

	entries := make(map[string]any, keys)
	for i := 0; i < keys; i++ {
		entries[benchKey(i)] = 0
	}
	m := reactive.NewMap(entries)
	reactive.Observe(m, false)

	vm := reactive.NewOwner()
	callbacks := 0
	for i := 0; i < watchers; i++ {
		key := benchKey(i % keys)
		reactive.NewWatcher(vm, func(*reactive.Owner) any {
			return m.Get(key)
		}, func(newVal, oldVal any) {
			callbacks++
		}, nil, false)
	}

	meter := tachymeter.New(&tachymeter.Config{Size: rounds})

	start := time.Now()
	for round := 0; round < rounds; round++ {
		for i := 0; i < keys; i++ {
			m.Set(benchKey(i), round+1)
		}
		flushStart := time.Now()
		drain()
		meter.AddTime(time.Since(flushStart))
	}
	total := time.Since(start)

	metrics := meter.Calc()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("lumen bench")
	t.AppendHeader(table.Row{"metric", "value"})
	t.AppendRows([]table.Row{
		{"keys", humanize.Comma(int64(keys))},
		{"watchers", humanize.Comma(int64(watchers))},
		{"rounds", humanize.Comma(int64(rounds))},
		{"callbacks fired", humanize.Comma(int64(callbacks))},
		{"total time", total.Round(time.Millisecond)},
		{"flush avg", metrics.Time.Avg},
		{"flush p50", metrics.Time.P50},
		{"flush p99", metrics.Time.P99},
		{"flush max", metrics.Time.Max},
	})
	t.Render()

	fmt.Printf("\n%s watcher runs/sec\n",
		humanize.Comma(int64(float64(callbacks)/total.Seconds())))
	return nil
}

func benchKey(i int) string {
	return fmt.Sprintf("k%04d", i)
}
