package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vango-dev/routetable/internal/dev"
	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/routepath"
)

// paramPrefix marks interpolation params in the /interpolate query.
const paramPrefix = "param."

// Options configures the debug server.
type Options struct {
	// Registry holds the live table. Required.
	Registry *router.Registry

	// Reloader enables POST /reload and GET /errors.
	Reloader *dev.Reloader

	// Notifier serves reload events on /__reload.
	Notifier *dev.ReloadServer

	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// Logger logs requests. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Server exposes a route registry over HTTP for inspection.
type Server struct {
	opts    Options
	logger  *zap.Logger
	handler http.Handler
}

// New creates a debug server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{opts: opts, logger: logger}
	s.handler = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/routes", s.handleRoutes)
	r.Get("/match", s.handleMatch)
	r.Get("/interpolate", s.handleInterpolate)

	if s.opts.Reloader != nil {
		r.Post("/reload", s.handleReload)
		r.Get("/errors", s.handleErrors)
	}
	if s.opts.Notifier != nil {
		r.Get("/__reload", s.opts.Notifier.HandleWebSocket)
	}
	if s.opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{
			ErrorHandling: promhttp.ContinueOnError,
		}))
	}
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("debug server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.New("R060").Wrap(err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.opts.Notifier != nil {
			s.opts.Notifier.Close()
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.New("R060").Wrap(err)
		}
		if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("R060").Wrap(err)
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type healthResponse struct {
	Status     string `json:"status"`
	Generation uint64 `json:"generation"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	gen := s.opts.Registry.Generation()
	if gen == 0 {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "no table"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Generation: gen})
}

type routeInfo struct {
	ID       string   `json:"id"`
	Path     string   `json:"path"`
	Layout   bool     `json:"layout"`
	Rank     string   `json:"rank"`
	Params   []string `json:"params,omitempty"`
	Parent   string   `json:"parent,omitempty"`
	Children []string `json:"children,omitempty"`
}

type routesResponse struct {
	Generation      uint64      `json:"generation"`
	CaseInsensitive bool        `json:"caseInsensitive"`
	Routes          []routeInfo `json:"routes"`
}

// handleRoutes lists the live table in match order.
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w)
	if !ok {
		return
	}

	resp := routesResponse{
		Generation:      s.opts.Registry.Generation(),
		CaseInsensitive: table.CaseInsensitive(),
		Routes:          make([]routeInfo, 0, table.Len()),
	}
	for _, p := range table.Patterns() {
		info := routeInfo{
			ID:     p.ID,
			Path:   p.Path(),
			Layout: p.IsLayout(),
			Rank:   p.Rank.String(),
			Params: p.ParamNames(),
		}
		if parent, ok := table.Parent(p.ID); ok {
			info.Parent = parent.ID
		}
		for _, c := range table.Children(p.ID) {
			info.Children = append(info.Children, c.ID)
		}
		resp.Routes = append(resp.Routes, info)
	}
	writeJSON(w, http.StatusOK, resp)
}

type matchResponse struct {
	Path      string            `json:"path"`
	Matched   bool              `json:"matched"`
	ID        string            `json:"id,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	Splat     []string          `json:"splat,omitempty"`
	Ancestors []string          `json:"ancestors,omitempty"`
}

// handleMatch resolves ?path=. The query and fragment of the path are
// stripped and dot segments resolved before matching.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("path")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing path parameter")
		return
	}
	canon, err := routepath.CanonicalizePath(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	table, m, ok := s.opts.Registry.Resolve(canon.Path)
	if table == nil {
		writeError(w, http.StatusServiceUnavailable, "no route table loaded")
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, matchResponse{Path: canon.Path})
		return
	}

	resp := matchResponse{
		Path:    canon.Path,
		Matched: true,
		ID:      m.ID(),
		Params:  m.Params.Strings(),
	}
	if v, ok := m.Params.Splat(); ok {
		resp.Splat = v.Segments()
	}
	for _, a := range table.Ancestors(m.ID()) {
		resp.Ancestors = append(resp.Ancestors, a.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

type interpolateResponse struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// handleInterpolate builds a path for ?id= from param.<name>= values.
func (s *Server) handleInterpolate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	id := query.Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	table, ok := s.table(w)
	if !ok {
		return
	}

	params := router.Params{}
	for key, values := range query {
		name, ok := strings.CutPrefix(key, paramPrefix)
		if !ok || len(values) == 0 {
			continue
		}
		params[name] = router.Str(values[0])
	}

	path, err := table.Interpolate(id, params)
	switch {
	case stderrors.Is(err, router.ErrUnknownPattern):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSON(w, http.StatusOK, interpolateResponse{ID: id, Path: path})
	}
}

type reloadResponse struct {
	Generation uint64          `json:"generation"`
	Source     string          `json:"source"`
	Errors     []*errors.Error `json:"errors,omitempty"`
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	err := s.opts.Reloader.Reload(r.Context())
	resp := reloadResponse{
		Generation: s.opts.Registry.Generation(),
		Source:     s.opts.Reloader.Source().String(),
	}
	if err != nil {
		resp.Errors = s.opts.Reloader.LastErrors()
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	errs := s.opts.Reloader.LastErrors()
	if errs == nil {
		errs = []*errors.Error{}
	}
	writeJSON(w, http.StatusOK, errs)
}

// table returns the live table or writes 503.
func (s *Server) table(w http.ResponseWriter) (*router.Table, bool) {
	table := s.opts.Registry.Table()
	if table == nil {
		writeError(w, http.StatusServiceUnavailable, "no route table loaded")
		return nil, false
	}
	return table, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
