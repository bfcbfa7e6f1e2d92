// Package server exposes route resolution over HTTP.
//
// Every GET maps to one resolution: the path is split into segments and
// handed to the resolver. The response encodes the resolution outcome: the
// JSON render payload on a match, a 308 to the canonical location on a
// redirect signal, and two flavors of 404 distinguishing "this term/post
// does not exist" from "no handler recognized this path".
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harborcms/harbor/pkg/errors"
	"github.com/harborcms/harbor/pkg/routing"
)

// OrganizationHeader selects the organization a request resolves against.
const OrganizationHeader = "X-Organization-Id"

// Server is the HTTP frontend over a routing.Resolver.
type Server struct {
	resolver            *routing.Resolver
	logger              *log.Logger
	defaultOrganization string
	router              chi.Router
}

// New assembles the server and its routes.
func New(resolver *routing.Resolver, logger *log.Logger, defaultOrganization string) *Server {
	s := &Server{
		resolver:            resolver,
		logger:              logger,
		defaultOrganization: defaultOrganization,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/healthz", s.handleHealth)
	r.Get("/*", s.handleResolve)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// logRequests logs one line per request with the chi request ID.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if err := errors.ValidateRequestPath(path); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_path", errors.UserMessage(err))
		return
	}

	organizationID := r.Header.Get(OrganizationHeader)
	if organizationID == "" {
		organizationID = s.defaultOrganization
	}

	ctx := routing.WithLogger(r.Context(), s.logger.With("request_id", middleware.GetReqID(r.Context())))
	segments := strings.Split(strings.Trim(path, "/"), "/")

	result, err := s.resolver.ResolveRoute(ctx, segments, r.URL.Query(), organizationID)
	switch {
	case err != nil:
		if redirect, ok := errors.AsRedirect(err); ok {
			http.Redirect(w, r, redirect.Location, http.StatusPermanentRedirect)
			return
		}
		if nf, ok := errors.AsNotFound(err); ok {
			writeError(w, http.StatusNotFound, "not_found", nf.Resource+" "+nf.Key+" does not exist")
			return
		}
		s.logger.Error("resolution failed", "path", path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal", errors.UserMessage(err))
	case result == nil:
		writeError(w, http.StatusNotFound, "no_route", "no route matches this path")
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
