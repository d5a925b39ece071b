package api

import (
	"net/http"
	"time"
)

// StatsProvider reports service counters for /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// statsResponse wraps the service counters with server uptime.
type statsResponse struct {
	UptimeSeconds float64                `json:"uptime_seconds"`
	Service       map[string]interface{} `json:"service"`
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	statsProvider StatsProvider
	startedAt     time.Time
}

// NewStatsHandler creates a stats handler; uptime counts from now.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, startedAt: time.Now()}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	stats := map[string]interface{}{}
	if h.statsProvider != nil {
		stats = h.statsProvider.GetStats()
	}
	writeJSON(w, http.StatusOK, statsResponse{
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		Service:       stats,
	})
}
