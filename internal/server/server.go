// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the resolver over HTTP with chi.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/sheetfinder/internal/catalog"
	"github.com/pdiddy/sheetfinder/internal/logger"
	"github.com/pdiddy/sheetfinder/internal/metrics"
	"github.com/pdiddy/sheetfinder/internal/resolve"
	"github.com/pdiddy/sheetfinder/pkg/types"
)

// Server serves the search, health and catalog endpoints.
type Server struct {
	resolver *resolve.Resolver
	logger   *zap.Logger
}

// New returns a server backed by resolver.
func New(resolver *resolve.Resolver, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{resolver: resolver, logger: log}
}

// Router returns the HTTP handler with middleware and routes installed.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLog(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/api/search", s.search)
	r.Get("/api/health", s.health)
	r.Get("/api/catalog", s.catalogStats)
	r.Get("/api/catalog/lookup", s.catalogLookup)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

type errorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type searchResponse struct {
	OK bool `json:"ok"`
	types.SearchResponse
}

type healthResponse struct {
	OK            bool `json:"ok"`
	CatalogLoaded bool `json:"catalog_loaded"`
	States        int  `json:"states"`
	Cities        int  `json:"cities"`
}

type catalogResponse struct {
	OK bool `json:"ok"`
	catalog.Stats
}

type lookupResponse struct {
	OK bool `json:"ok"`
	catalog.Match
}

// place reads city and uf (or state) from the query string.
func place(r *http.Request) (city, state string) {
	q := r.URL.Query()
	state = q.Get("uf")
	if state == "" {
		state = q.Get("state")
	}
	return strings.TrimSpace(q.Get("city")), strings.TrimSpace(state)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	city, state := place(r)
	resp, err := s.resolver.Resolve(r.Context(), city, state)
	if err != nil {
		var ve *resolve.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Error())
		case r.Context().Err() != nil:
			logger.FromContext(r.Context()).Info("search cancelled by client", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "request cancelled")
		default:
			logger.FromContext(r.Context()).Error("search failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{OK: true, SearchResponse: resp})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	cat := s.resolver.Catalog()
	writeJSON(w, http.StatusOK, healthResponse{
		OK:            true,
		CatalogLoaded: cat.Len() > 0,
		States:        len(cat.States()),
		Cities:        cat.Len(),
	})
}

func (s *Server) catalogStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{OK: true, Stats: s.resolver.Catalog().Stats()})
}

func (s *Server) catalogLookup(w http.ResponseWriter, r *http.Request) {
	city, state := place(r)
	if city == "" || state == "" {
		writeError(w, http.StatusBadRequest, "city and uf are required")
		return
	}
	writeJSON(w, http.StatusOK, lookupResponse{OK: true, Match: s.resolver.Catalog().Lookup(state, city)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{OK: false, Message: message})
}

// jsonRecoverer turns a handler panic into a 500 JSON error.
func jsonRecoverer(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Error("panic recovered", zap.Any("panic", rvr), zap.Stack("stacktrace"))
					writeError(w, http.StatusInternalServerError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLog emits one log line per request and carries a request-scoped
// logger in the context.
func requestLog(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLog := log.With(zap.String("request_id", requestID))
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), reqLog)))

			reqLog.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
