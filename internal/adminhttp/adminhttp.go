// Package adminhttp implements the operator-facing admin surface (§6): log filter and
// span toggles, Prometheus metrics, a debug message log line, and heap/stack
// diagnostics. Panic recovery, correlation IDs, and request logging come from the
// teacher's api/middleware package; authentication and rate limiting are implemented
// in this file.
package adminhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"runtime"
	"runtime/pprof"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/blade-bes/besd/internal/api/middleware"
	"github.com/blade-bes/besd/internal/handlers"
	"github.com/blade-bes/besd/internal/metrics"
)

// Server is the admin HTTP surface. AuthTokenHash, when non-empty, gates every route
// behind a bearer token compared with bcrypt; an empty hash leaves the surface open,
// matching a local/dev deployment where the original ran admin unauthenticated.
type Server struct {
	PrintEvent    *handlers.PrintEventHandler
	Logger        *slog.Logger
	AuthTokenHash string

	limiter *rate.Limiter
}

// NewServer wires the admin mux. requestsPerSecond bounds the whole surface with a
// single token bucket — the admin API has no per-caller identity to key a richer
// limiter on, unlike the plugin-facing API surface.
func NewServer(printEvent *handlers.PrintEventHandler, logger *slog.Logger, authTokenHash string, requestsPerSecond float64) *Server {
	return &Server{
		PrintEvent:    printEvent,
		Logger:        logger,
		AuthTokenHash: authTokenHash,
		limiter:       rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)*2+1),
	}
}

// Handler builds the admin mux wrapped in recovery, rate limiting, and auth.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/log_filter", s.setLogFilter)
	mux.HandleFunc("POST /admin/span", s.setSpan)
	mux.Handle("GET /admin/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("POST /admin/debug_message", s.debugMessage)
	mux.HandleFunc("GET /admin/mem/stats", s.memStats)
	mux.HandleFunc("GET /admin/mem/dump", s.memDump)
	mux.HandleFunc("GET /admin/mem/enable", s.memEnable)
	mux.HandleFunc("GET /admin/stackz", s.stackz)

	// Panic recovery, correlation IDs, and request logging come from the same
	// middleware chain the read-side API assembles; rate limiting and auth stay
	// admin-specific since the admin surface has no per-caller plugin identity to
	// key a richer limiter on.
	base := s.rateLimit(s.authenticate(mux))
	return middleware.Apply(base,
		middleware.WithCorrelationID(),
		middleware.WithRecovery(s.Logger),
		middleware.WithRequestLogger(s.Logger),
	)
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.AuthTokenHash == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := r.Header.Get("X-Admin-Token")
		if token == "" || bcrypt.CompareHashAndPassword([]byte(s.AuthTokenHash), []byte(token)) != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setLogFilter re-points the print-event handler's gating regex. An empty body
// disables print-event logging entirely, matching a zero-value regex behaving as a
// no-op everywhere it's checked.
func (s *Server) setLogFilter(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		s.PrintEvent.SetPattern(nil)
		w.WriteHeader(http.StatusOK)
		return
	}
	re, err := regexp.Compile(string(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.PrintEvent.SetPattern(re)
	w.WriteHeader(http.StatusOK)
}

// setSpan parses a body of a single "true" or "false" and logs the value at info
// level. It does not change the logger's level or any other logging setting.
func (s *Server) setSpan(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	enable, err := strconv.ParseBool(string(bytes.TrimSpace(body)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	level := slog.LevelInfo
	if enable {
		level = slog.LevelDebug
	}
	s.Logger.Info("admin span toggle", "debug_enabled", enable, "level", level.String())
	w.WriteHeader(http.StatusOK)
}

// debugMessage logs a single operator-supplied line at info level, useful for marking
// a point in the logs during an incident without restarting anything.
func (s *Server) debugMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.Logger.Info("debug message", "message", string(body))
	w.WriteHeader(http.StatusOK)
}

func (s *Server) memStats(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	w.Header().Set("Content-Type", "application/json")
	_ = writeMemStatsJSON(w, &m)
}

func (s *Server) memDump(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/octet-stream")
	if err := pprof.WriteHeapProfile(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) memEnable(w http.ResponseWriter, r *http.Request) {
	enable, err := strconv.ParseBool(r.URL.Query().Get("enable"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sampleRate := 0
	if enable {
		sampleRate = 1
	}
	runtime.MemProfileRate = sampleRate
	w.WriteHeader(http.StatusOK)
}

func (s *Server) stackz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if err := pprof.Lookup("goroutine").WriteTo(w, 1); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeMemStatsJSON(w io.Writer, m *runtime.MemStats) error {
	return json.NewEncoder(w).Encode(struct {
		Alloc         uint64 `json:"alloc"`
		TotalAlloc    uint64 `json:"total_alloc"`
		Sys           uint64 `json:"sys"`
		HeapAlloc     uint64 `json:"heap_alloc"`
		HeapSys       uint64 `json:"heap_sys"`
		HeapObjects   uint64 `json:"heap_objects"`
		NumGC         uint32 `json:"num_gc"`
		NumGoroutine  int    `json:"num_goroutine"`
	}{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		HeapObjects:  m.HeapObjects,
		NumGC:        m.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
	})
}

// Serve runs the admin HTTP server on addr until ctx is canceled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
