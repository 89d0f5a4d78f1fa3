// Package devtools exposes the reactive scheduler to an inspector UI: JSON
// snapshots of scheduler state, a ring buffer of recent flushes, Prometheus
// metrics, and a WebSocket stream of live flush events.
package devtools

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumen-dev/lumen/pkg/reactive"
)

// FlushEventType discriminates inspector stream messages.
type FlushEventType string

const (
	EventFlushStart  FlushEventType = "flush_start"
	EventWatcherRun  FlushEventType = "watcher_run"
	EventLoopAborted FlushEventType = "loop_aborted"
	EventFlushEnd    FlushEventType = "flush_end"
)

// FlushEvent is one inspector stream message.
type FlushEvent struct {
	Type        FlushEventType `json:"type"`
	At          time.Time      `json:"at"`
	WatcherID   uint64         `json:"watcher_id,omitempty"`
	Expression  string         `json:"expression,omitempty"`
	WatchersRan int            `json:"watchers_ran,omitempty"`
}

// FlushRecord summarizes one completed flush for the ring buffer.
type FlushRecord struct {
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	WatchersRan int       `json:"watchers_ran"`
	Aborted     bool      `json:"aborted"`
}

// InspectorOptions configures the inspector.
type InspectorOptions struct {
	// History is the number of completed flushes to retain (default: 128).
	History int

	// Logger receives inspector logs (default: slog.Default()).
	Logger *slog.Logger
}

// Inspector records flush activity and serves it over HTTP. It implements
// reactive.FlushObserver; attach with reactive.RegisterFlushObserver.
type Inspector struct {
	history int
	logger  *slog.Logger

	mu      sync.RWMutex
	flushes []FlushRecord
	current FlushRecord

	hub *hub
}

// NewInspector creates an inspector.
func NewInspector(opts *InspectorOptions) *Inspector {
	history := 128
	logger := slog.Default()
	if opts != nil {
		if opts.History > 0 {
			history = opts.History
		}
		if opts.Logger != nil {
			logger = opts.Logger
		}
	}
	return &Inspector{
		history: history,
		logger:  logger,
		hub:     newHub(logger),
	}
}

// FlushStart implements reactive.FlushObserver.
func (in *Inspector) FlushStart(at time.Time) {
	in.mu.Lock()
	in.current = FlushRecord{StartedAt: at}
	in.mu.Unlock()
	in.hub.broadcast(FlushEvent{Type: EventFlushStart, At: at})
}

// WatcherRan implements reactive.FlushObserver.
func (in *Inspector) WatcherRan(id uint64, expression string) {
	in.hub.broadcast(FlushEvent{
		Type:       EventWatcherRun,
		At:         time.Now(),
		WatcherID:  id,
		Expression: expression,
	})
}

// LoopAborted implements reactive.FlushObserver.
func (in *Inspector) LoopAborted(id uint64, expression string) {
	in.mu.Lock()
	in.current.Aborted = true
	in.mu.Unlock()
	in.hub.broadcast(FlushEvent{
		Type:       EventLoopAborted,
		At:         time.Now(),
		WatcherID:  id,
		Expression: expression,
	})
}

// FlushEnd implements reactive.FlushObserver.
func (in *Inspector) FlushEnd(at time.Time, watchersRan int) {
	in.mu.Lock()
	in.current.EndedAt = at
	in.current.WatchersRan = watchersRan
	in.flushes = append(in.flushes, in.current)
	if len(in.flushes) > in.history {
		in.flushes = in.flushes[len(in.flushes)-in.history:]
	}
	in.mu.Unlock()
	in.hub.broadcast(FlushEvent{Type: EventFlushEnd, At: at, WatchersRan: watchersRan})
}

// Flushes returns the retained flush history, oldest first.
func (in *Inspector) Flushes() []FlushRecord {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]FlushRecord, len(in.flushes))
	copy(out, in.flushes)
	return out
}

// Routes returns the inspector's HTTP routes:
//
//	GET /scheduler - current scheduler state snapshot
//	GET /flushes   - retained flush history
//	GET /stream    - WebSocket stream of live flush events
//	GET /metrics   - Prometheus metrics
func (in *Inspector) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/scheduler", in.handleScheduler)
	r.Get("/flushes", in.handleFlushes)
	r.Get("/stream", in.hub.handleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (in *Inspector) handleScheduler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, reactive.SchedulerSnapshot())
}

func (in *Inspector) handleFlushes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, in.Flushes())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
