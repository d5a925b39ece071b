// Package render writes search results and rankings as terminal tables,
// CSV, JSON or XLSX workbooks.
package render

import (
	"fmt"

	"github.com/okian/kdrama/internal/domain/ranking"
	"github.com/okian/kdrama/internal/domain/search"
	"github.com/okian/kdrama/internal/domain/types"
)

// User-facing ranking notices.
const (
	IdlePrompt = "Try out the filters in the sidebar!"
)

// Ranking view statuses.
const (
	RankingOK    = "ok"
	RankingIdle  = "idle"
	RankingEmpty = "empty"
)

// SearchView is the serialisable form of a search result.
type SearchView struct {
	Query   string            `json:"query"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Count   int               `json:"count"`
	Rows    []types.SearchRow `json:"rows"`
}

// NewSearchView converts a search result.
func NewSearchView(res search.Result) SearchView {
	rows := res.Rows
	if rows == nil {
		rows = []types.SearchRow{}
	}
	return SearchView{
		Query:   res.Query,
		Status:  string(res.Status),
		Message: res.Message(),
		Count:   len(rows),
		Rows:    rows,
	}
}

// RankingView is the serialisable form of a ranking, or of the idle state
// when no role and metric were chosen.
type RankingView struct {
	Status       string         `json:"status"`
	Message      string         `json:"message,omitempty"`
	Role         string         `json:"role,omitempty"`
	Metric       string         `json:"metric,omitempty"`
	YearMin      int            `json:"year_min"`
	YearMax      int            `json:"year_max"`
	Limit        int            `json:"limit,omitempty"`
	Records      int            `json:"records"`
	Contributors int            `json:"contributors"`
	Chart        *ranking.Chart `json:"chart,omitempty"`
	Entries      []types.Entry  `json:"entries"`
}

// NewRankingView converts a computed ranking.
func NewRankingView(rk ranking.Ranking) RankingView {
	chart := rk.Chart()
	v := RankingView{
		Status:       RankingOK,
		Role:         rk.Query.Role.Key(),
		Metric:       rk.Query.Metric.Key(),
		YearMin:      rk.Query.YearMin,
		YearMax:      rk.Query.YearMax,
		Limit:        rk.Query.Limit,
		Records:      rk.Records,
		Contributors: rk.Contributors,
		Chart:        &chart,
		Entries:      rk.Entries,
	}
	if v.Entries == nil {
		v.Entries = []types.Entry{}
	}
	if len(v.Entries) == 0 {
		v.Status = RankingEmpty
		v.Message = fmt.Sprintf("No %s found for dramas released between %d and %d.",
			rk.Query.Role.Plural(), rk.Query.YearMin, rk.Query.YearMax)
	}
	return v
}

// IdleRankingView is returned while role or metric is unselected.
func IdleRankingView(yearMin, yearMax int) RankingView {
	return RankingView{
		Status:  RankingIdle,
		Message: IdlePrompt,
		YearMin: yearMin,
		YearMax: yearMax,
		Entries: []types.Entry{},
	}
}
