package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/kdrama/internal/adapters/render"
	"github.com/okian/kdrama/internal/domain/search"
	"github.com/okian/kdrama/pkg/metrics"
)

// ExportHandler serves downloadable search results and rankings.
type ExportHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies, maxLimit int) *ExportHandler {
	return &ExportHandler{deps: deps, maxLimit: maxLimit}
}

// HandleSearchExport handles GET /api/search/export?format=&q= requests.
func (h *ExportHandler) HandleSearchExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.search_export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	format, err := exportFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil && !errors.Is(err, search.ErrNoMatch) {
		writeServiceError(w, op, err)
		return
	}

	var buf bytes.Buffer
	if err := render.Search(&buf, format, render.NewSearchView(res)); err != nil {
		writeError(w, http.StatusInternalServerError, "export_failed", WrapKind(op, ErrExportFailed, err))
		return
	}
	metrics.RecordExport("search", string(format))
	writeAttachment(w, format, "kdrama-search", buf.Bytes())
}

// HandleRankingExport handles GET /api/ranking/export requests. It takes the
// same parameters as /api/ranking plus format; role and metric are required.
func (h *ExportHandler) HandleRankingExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.ranking_export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	format, err := exportFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
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
	if view.Status == render.RankingIdle {
		writeError(w, http.StatusBadRequest, "missing_parameter",
			WrapKind(op, ErrBadRequest, errors.New("role and metric are required for export")))
		return
	}

	var buf bytes.Buffer
	if err := render.Ranking(&buf, format, view); err != nil {
		writeError(w, http.StatusInternalServerError, "export_failed", WrapKind(op, ErrExportFailed, err))
		return
	}
	metrics.RecordExport("ranking", string(format))
	writeAttachment(w, format, "kdrama-"+view.Role+"-"+view.Metric, buf.Bytes())
}

// exportFormat reads the format parameter. Terminal tables are not offered
// for download.
func exportFormat(r *http.Request) (render.Format, error) {
	f, err := render.ParseFormat(r.URL.Query().Get("format"), render.FormatXLSX)
	if err != nil {
		return "", err
	}
	if f == render.FormatTable {
		return "", fmt.Errorf("%w: %q is not downloadable", render.ErrUnknownFormat, f)
	}
	return f, nil
}

func writeAttachment(w http.ResponseWriter, f render.Format, base string, body []byte) {
	name := base + "-" + time.Now().UTC().Format("20060102") + "." + f.Extension()
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
