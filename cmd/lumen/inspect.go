package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/pkg/devtools"
	"github.com/lumen-dev/lumen/pkg/instrument"
	"github.com/lumen-dev/lumen/pkg/reactive"
)

func inspectCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve the scheduler inspector over HTTP",
		Long: `Starts the inspector endpoints and a demo workload so there is flush
activity to look at. Endpoints:

  GET /inspector/scheduler - scheduler state snapshot
  GET /inspector/flushes   - recent flush history
  GET /inspector/stream    - WebSocket stream of live flush events
  GET /inspector/metrics   - Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:6220", "Listen address")

	return cmd
}

func runInspect(addr string) error {
	inspector := devtools.NewInspector(nil)
	reactive.RegisterFlushObserver(inspector)
	reactive.RegisterFlushObserver(instrument.NewMetrics())

	stopDemo := startDemoWorkload()
	defer stopDemo()

	r := chi.NewRouter()
	r.Mount("/inspector", inspector.Routes())

	slog.Info("inspector listening", "addr", fmt.Sprintf("http://%s/inspector", addr))
	return http.ListenAndServe(addr, r)
}
