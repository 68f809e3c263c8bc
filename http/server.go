package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/isocert"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout is how long in-flight requests get to finish on shutdown.
const ShutdownTimeout = 5 * time.Second

// Server exposes the search service as a JSON API.
type Server struct {
	search  isocert.SearchService
	metrics http.Handler
	logger  *slog.Logger
	router  chi.Router
}

// NewServer creates a new Server. metrics may be nil to disable /metrics.
func NewServer(search isocert.SearchService, metrics http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{search: search, metrics: metrics, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.wrap(s.handleSearchQuery))
		r.Post("/search", s.wrap(s.handleSearchBody))
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap converts a handler error into a JSON error response.
func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			code := isocert.ErrorCode(err)
			if code == isocert.EINTERNAL {
				s.logger.Error("request failed", "path", r.URL.Path, "err", err)
			}
			writeJSON(w, errorStatus(code), map[string]string{"error": isocert.ErrorMessage(err)})
		}
	}
}

// GET /api/search?companyName=<name>
func (s *Server) handleSearchQuery(w http.ResponseWriter, r *http.Request) error {
	return s.respondSearch(w, r, r.URL.Query().Get("companyName"))
}

// POST /api/search
// Body: {"companyName": "<name>"}
func (s *Server) handleSearchBody(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		CompanyName string `json:"companyName"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&body); err != nil {
		return isocert.Errorf(isocert.EINVALID, "invalid JSON body: %v", err)
	}
	return s.respondSearch(w, r, body.CompanyName)
}

func (s *Server) respondSearch(w http.ResponseWriter, r *http.Request, companyName string) error {
	res, err := s.search.Search(r.Context(), companyName)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(begin),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

func errorStatus(code string) int {
	switch code {
	case isocert.EINVALID:
		return http.StatusBadRequest
	case isocert.ENOTFOUND:
		return http.StatusNotFound
	case isocert.ECONFLICT:
		return http.StatusConflict
	case isocert.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
