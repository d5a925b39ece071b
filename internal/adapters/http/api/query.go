package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/kdrama/internal/adapters/render"
	"github.com/okian/kdrama/internal/domain/ranking"
	"github.com/okian/kdrama/internal/domain/search"
	"github.com/okian/kdrama/internal/domain/types"
)

// MetaHandler serves GET /api/meta.
type MetaHandler struct {
	deps Dependencies
}

// NewMetaHandler creates a new meta handler.
func NewMetaHandler(deps Dependencies) *MetaHandler {
	return &MetaHandler{deps: deps}
}

// HandleMeta handles GET /api/meta requests.
func (h *MetaHandler) HandleMeta(w http.ResponseWriter, r *http.Request) {
	const op = "api.meta"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	meta, err := h.deps.Meta(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// SearchHandler serves GET /api/search?q=.
type SearchHandler struct {
	deps Dependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// HandleSearch handles GET /api/search requests. A query without matches
// is a normal 200 response with status "no_match".
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	res, err := h.deps.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil && !errors.Is(err, search.ErrNoMatch) {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, render.NewSearchView(res))
}

// RankingHandler serves GET /api/ranking.
type RankingHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps Dependencies, maxLimit int) *RankingHandler {
	return &RankingHandler{deps: deps, maxLimit: maxLimit}
}

// HandleRanking handles GET /api/ranking requests. While role or metric is
// missing the response is the idle view.
func (h *RankingHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.ranking"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, status, code, err := runRanking(r.Context(), h.deps, r.URL.Query(), h.maxLimit, op)
	if err != nil {
		if status == 0 {
			writeServiceError(w, op, err)
			return
		}
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// runRanking parses params, runs the pipeline and builds the view. A
// non-zero status comes with a client error; status 0 with a service error.
func runRanking(ctx context.Context, deps Dependencies, params url.Values, maxLimit int, op string) (render.RankingView, int, string, error) {
	q, err := parseRankingQuery(params, maxLimit)
	if err != nil {
		return render.RankingView{}, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err)
	}

	hasMin, hasMax := params.Get("year_min") != "", params.Get("year_max") != ""
	if !hasMin || !hasMax {
		meta, err := deps.Meta(ctx)
		if err != nil {
			return render.RankingView{}, 0, "", err
		}
		if !hasMin {
			q.YearMin = meta.YearMin
		}
		if !hasMax {
			q.YearMax = meta.YearMax
		}
	}

	rk, err := deps.Rank(ctx, q)
	switch {
	case errors.Is(err, ranking.ErrMissingParameter):
		return render.IdleRankingView(q.YearMin, q.YearMax), 0, "", nil
	case errors.Is(err, ranking.ErrInvalidRange):
		return render.RankingView{}, http.StatusBadRequest, "invalid_range", Wrap(op, err)
	case err != nil:
		return render.RankingView{}, 0, "", err
	}
	return render.NewRankingView(rk), 0, "", nil
}

// parseRankingQuery reads year_min, year_max, role, metric and limit. Absent
// or empty years are left at zero; the caller defaults them.
func parseRankingQuery(params url.Values, maxLimit int) (ranking.Query, error) {
	var q ranking.Query
	var err error

	if q.Role, err = types.ParseRole(params.Get("role")); err != nil {
		return q, err
	}
	if q.Metric, err = types.ParseMetric(params.Get("metric")); err != nil {
		return q, err
	}
	if q.YearMin, err = optionalInt(params, "year_min"); err != nil {
		return q, err
	}
	if q.YearMax, err = optionalInt(params, "year_max"); err != nil {
		return q, err
	}
	if q.Limit, err = optionalInt(params, "limit"); err != nil {
		return q, err
	}
	if params.Has("limit") && q.Limit < 1 {
		return q, fmt.Errorf("limit must be positive, got %d", q.Limit)
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return q, nil
}

func optionalInt(params url.Values, key string) (int, error) {
	s := params.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return n, nil
}
