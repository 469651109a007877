package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"iotsec-sim/internal/engine"
)

// Server exposes a JSON status surface for a running simulation.
type Server struct {
	eng     *engine.Engine
	metrics http.Handler
}

// statusResponse is the /status payload.
type statusResponse struct {
	RunID    string             `json:"run_id"`
	Counters engine.Counters    `json:"counters"`
	Devices  map[string]float64 `json:"devices"`
}

// NewServer creates a status server for eng. metrics may be nil to disable
// the /metrics endpoint.
func NewServer(eng *engine.Engine, metrics http.Handler) *Server {
	return &Server{eng: eng, metrics: metrics}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/counters", s.handleCounters)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.routes()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	latest := s.eng.LatestRemaining()
	devices := make(map[string]float64, len(latest))
	for id, remaining := range latest {
		devices[string(id)] = remaining
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		RunID:    s.eng.RunID(),
		Counters: s.eng.Counters(),
		Devices:  devices,
	})
}

func (s *Server) handleCounters(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.eng.Counters())
}
