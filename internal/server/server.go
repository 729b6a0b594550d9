// Package server implements the repertree HTTP API.
//
// Routes:
//
//	GET    /healthz                 liveness probe
//	GET    /version                 build information
//	POST   /export                  repertoire JSON in, PGN out
//	GET    /repertoires             stored repertoire descriptors
//	GET    /repertoires/{id}        stored repertoire, graph form
//	PUT    /repertoires/{id}        create or replace a repertoire
//	DELETE /repertoires/{id}        remove a repertoire
//	GET    /repertoires/{id}/pgn    export a stored repertoire
//
// Export endpoints take the PGN header options as query parameters (date,
// event, site, white, black, refresh). Errors are JSON objects with the
// error code and a user-facing message; the code decides the status.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/repertree/repertree/pkg/buildinfo"
	"github.com/repertree/repertree/pkg/cache"
	rterrors "github.com/repertree/repertree/pkg/errors"
	repio "github.com/repertree/repertree/pkg/io"
	"github.com/repertree/repertree/pkg/pipeline"
	"github.com/repertree/repertree/pkg/repertoire"
	"github.com/repertree/repertree/pkg/store"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 8 << 20

// ContentTypePGN is the media type of exported documents.
const ContentTypePGN = "application/x-chess-pgn"

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Server serves the HTTP API.
type Server struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Defaults fill header options the request leaves empty.
	Defaults pipeline.Options
}

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{Runner: runner, Store: st, Logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.health)
	r.Get("/version", s.version)
	r.Post("/export", s.export)

	r.Route("/repertoires", func(r chi.Router) {
		r.Get("/", s.list)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.get)
			r.Put("/", s.put)
			r.Delete("/", s.remove)
			r.Get("/pgn", s.exportStored)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	rep, err := readRepertoire(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePGN(w, r, rep)
}

func (s *Server) exportStored(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePGN(w, r, rep)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	descs, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if descs == nil {
		descs = []repertoire.Descriptor{}
	}
	writeJSON(w, http.StatusOK, descs)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := repio.Marshal(rep)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// put stores the body under the URL id. The URL wins over any id in the
// body.
func (s *Server) put(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := rterrors.ValidateRepertoireID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	rep, err := readRepertoire(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rep.ID = id
	if err := rep.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Store.Put(r.Context(), rep); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Logger.Info("stored repertoire", "id", id, "positions", rep.Graph.Len(), "request_id", RequestIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, rep.Descriptor)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func readRepertoire(w http.ResponseWriter, r *http.Request) (*repertoire.Repertoire, error) {
	return repio.ReadJSON(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
}

// options reads header options from the query string.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Date:  q.Get("date"),
		Event: q.Get("event"),
		Site:  q.Get("site"),
		White: q.Get("white"),
		Black: q.Get("black"),
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return opts, rterrors.New(rterrors.ErrCodeInvalidInput, "invalid refresh: %q", v)
		}
		opts.Refresh = refresh
	}
	if opts.Event == "" {
		opts.Event = s.Defaults.Event
	}
	if opts.Site == "" {
		opts.Site = s.Defaults.Site
	}
	opts.Logger = s.Logger
	return opts, nil
}

func (s *Server) writePGN(w http.ResponseWriter, r *http.Request, rep *repertoire.Repertoire) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Runner.Export(r.Context(), rep, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if res.CacheInfo.ExportHit {
		cacheStatus = "HIT"
	}
	h := w.Header()
	h.Set("Content-Type", ContentTypePGN)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(rep)))
	h.Set("X-Position-Count", strconv.Itoa(res.PositionCount))
	h.Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PGN)
}

type errorBody struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := rterrors.GetCode(err)
	if code == "" {
		switch status {
		case http.StatusNotFound:
			code = rterrors.ErrCodeRepertoireNotFound
		case http.StatusRequestEntityTooLarge:
			code = rterrors.ErrCodeInvalidInput
		default:
			code = rterrors.ErrCodeInternal
		}
	}
	msg := rterrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFrom(r.Context()))
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: string(code), Error: msg, RequestID: RequestIDFrom(r.Context())})
}

// StatusFor maps an error to an HTTP status.
func StatusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, cache.ErrNetwork):
		return http.StatusServiceUnavailable
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	}
	switch rterrors.GetCode(err) {
	case rterrors.ErrCodeInvalidInput, rterrors.ErrCodeInvalidFormat, rterrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case rterrors.ErrCodeInvalidRepertoire, rterrors.ErrCodeMalformedFEN,
		rterrors.ErrCodeIllegalMove, rterrors.ErrCodeDanglingReference:
		return http.StatusUnprocessableEntity
	case rterrors.ErrCodeNotFound, rterrors.ErrCodeRepertoireNotFound, rterrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case rterrors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case rterrors.ErrCodeNetwork, rterrors.ErrCodeTimeout:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
