// Package search finds dramas by title.
package search

import (
	"errors"
	"strconv"
	"strings"

	"github.com/okian/kdrama/internal/domain/model"
	"github.com/okian/kdrama/internal/domain/types"
	"golang.org/x/text/cases"
)

// DefaultLimit is the size of the default view shown for an empty query.
const DefaultLimit = 10

// ErrNoMatch means a non-empty query matched no title.
var ErrNoMatch = errors.New("no drama matches the query")

// Status distinguishes the three shapes of a search result.
type Status string

// Result statuses.
const (
	StatusTop     Status = "top"      // empty query, default view
	StatusMatches Status = "matches"  // at least one title matched
	StatusNoMatch Status = "no_match" // query entered, nothing found
)

// Result is the search view.
type Result struct {
	Query  string
	Status Status
	Rows   []types.SearchRow
}

// Message returns the user-facing line shown above the rows.
func (r Result) Message() string {
	switch r.Status {
	case StatusTop:
		return "Showing Top " + strconv.Itoa(len(r.Rows)) + " Kdramas:"
	case StatusNoMatch:
		return "No Kdrama found with that name. Try another one!"
	default:
		return "Found " + strconv.Itoa(len(r.Rows)) + " result(s):"
	}
}

// Search returns the records whose name contains query, ignoring case, in
// dataset order. An empty query returns the first defaultLimit records
// (DefaultLimit when defaultLimit <= 0). A query without matches returns
// ErrNoMatch together with a StatusNoMatch result.
func Search(ds *model.Dataset, query string, defaultLimit int) (Result, error) {
	if query == "" {
		if defaultLimit <= 0 {
			defaultLimit = DefaultLimit
		}
		rows := make([]types.SearchRow, 0, min(defaultLimit, ds.Len()))
		ds.Each(func(_ int, r model.DramaRecord) bool {
			rows = append(rows, row(r))
			return len(rows) < defaultLimit
		})
		return Result{Query: query, Status: StatusTop, Rows: rows}, nil
	}

	needle := cases.Fold().String(query)
	var rows []types.SearchRow
	ds.Each(func(i int, r model.DramaRecord) bool {
		if strings.Contains(ds.FoldedName(i), needle) {
			rows = append(rows, row(r))
		}
		return true
	})
	if len(rows) == 0 {
		return Result{Query: query, Status: StatusNoMatch, Rows: []types.SearchRow{}}, ErrNoMatch
	}
	return Result{Query: query, Status: StatusMatches, Rows: rows}, nil
}

func row(r model.DramaRecord) types.SearchRow {
	return types.SearchRow{Name: r.Name, Rank: r.Rank, Rating: r.Rating}
}
