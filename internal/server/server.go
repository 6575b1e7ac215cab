// Package server exposes the record and target stores as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/andst/staffboard/internal/logging"
	"github.com/andst/staffboard/internal/storage"
)

// Server serves the API over one shared cache.
type Server struct {
	cache         *storage.Cache
	now           func() time.Time
	healthChecker *HealthChecker
	http          *http.Server
}

// Options configures a Server.
type Options struct {
	Addr string
	// AccessLog receives one Apache combined log line per request.
	// Nil disables access logging.
	AccessLog io.Writer
	// Now is the clock used for default periods. Nil uses time.Now.
	Now func() time.Time
}

// New creates a server over cache.
func New(cache *storage.Cache, opts Options) *Server {
	s := &Server{cache: cache, now: opts.Now}
	if s.now == nil {
		s.now = time.Now
	}
	s.healthChecker = NewHealthChecker(cache.Store().BackendName())
	s.healthChecker.AddCheck("backend", s.checkBackend)

	var h http.Handler = s.Router()
	if opts.AccessLog != nil {
		h = handlers.CombinedLoggingHandler(opts.AccessLog, h)
	}
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(h)

	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID)
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/records", s.listRecords).Methods(http.MethodGet)
	api.HandleFunc("/records", s.putRecord).Methods(http.MethodPut)
	api.HandleFunc("/records", s.deleteRecord).Methods(http.MethodDelete)

	api.HandleFunc("/targets", s.listTargets).Methods(http.MethodGet)
	api.HandleFunc("/targets/{month}/{category}", s.getTarget).Methods(http.MethodGet)
	api.HandleFunc("/targets/{month}/{category}", s.putTarget).Methods(http.MethodPut)

	st := api.PathPrefix("/stats").Subrouter()
	st.HandleFunc("/summary", s.summary).Methods(http.MethodGet)
	st.HandleFunc("/weekly", s.weekly).Methods(http.MethodGet)
	st.HandleFunc("/staff", s.staff).Methods(http.MethodGet)
	st.HandleFunc("/composition", s.composition).Methods(http.MethodGet)
	st.HandleFunc("/monthly", s.monthly).Methods(http.MethodGet)
	st.HandleFunc("/daily", s.daily).Methods(http.MethodGet)

	r.HandleFunc("/", s.index).Methods(http.MethodGet)
	return r
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe serves until ctx is canceled, then shuts down within
// shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info("http server starting", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Info("http server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// requestID tags each request context and response with a request id.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = logging.GenerateRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}
