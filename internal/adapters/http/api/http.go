// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/kdrama/internal/adapters/repository"
	"github.com/okian/kdrama/internal/domain/ranking"
	"github.com/okian/kdrama/internal/domain/search"
	"github.com/okian/kdrama/internal/domain/types"
	"github.com/okian/kdrama/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Search runs a title search over the current snapshot.
	Search(ctx context.Context, query string) (search.Result, error)
	// Rank runs the ranking pipeline over the current snapshot.
	Rank(ctx context.Context, q ranking.Query) (ranking.Ranking, error)
	// Meta describes the current snapshot.
	Meta(ctx context.Context) (types.Meta, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	metricsHandler http.Handler
	statsHandler   *StatsHandler
	metaHandler    *MetaHandler
	searchHandler  *SearchHandler
	rankingHandler *RankingHandler
	exportHandler  *ExportHandler
	log            logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used by the request middleware.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// ranking limit parameter.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(deps),
		metricsHandler: NewMetricsHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		metaHandler:    NewMetaHandler(deps),
		searchHandler:  NewSearchHandler(deps),
		rankingHandler: NewRankingHandler(deps, maxLimit),
		exportHandler:  NewExportHandler(deps, maxLimit),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.Handle(path, RequestIDMiddleware(MetricsMiddleware(h, endpoint), s.log))
	}
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/metrics", "metrics", s.metricsHandler.ServeHTTP)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/api/meta", "meta", s.metaHandler.HandleMeta)
	route("/api/search", "search", s.searchHandler.HandleSearch)
	route("/api/search/export", "search_export", s.exportHandler.HandleSearchExport)
	route("/api/ranking", "ranking", s.rankingHandler.HandleRanking)
	route("/api/ranking/export", "ranking_export", s.exportHandler.HandleRankingExport)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps errors returned by Dependencies.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "not_ready", WrapKind(op, ErrNotReady, err))
	case errors.Is(err, ranking.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_range", Wrap(op, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "canceled", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
