// Package ranking groups contributors by role and ranks them by an
// aggregate of the ratings of the dramas they worked on.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/kdrama/internal/domain/model"
	"github.com/okian/kdrama/internal/domain/types"
)

// DefaultLimit is the number of contributors shown in a ranking.
const DefaultLimit = 15

// Query selects what to rank.
type Query struct {
	YearMin int
	YearMax int
	Role    types.Role
	Metric  types.Metric
	// Limit caps the number of entries; <= 0 means DefaultLimit.
	Limit int
}

// Validate reports ErrMissingParameter before ErrInvalidRange so that an
// incomplete selection is always treated as idle.
func (q Query) Validate() error {
	if !q.Role.Selected() || !q.Metric.Selected() {
		return ErrMissingParameter
	}
	if q.YearMin > q.YearMax {
		return fmt.Errorf("%w: %d > %d", ErrInvalidRange, q.YearMin, q.YearMax)
	}
	return nil
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// Ranking is the ordered result of a query.
type Ranking struct {
	Query Query
	// Records is the number of dramas inside the year range.
	Records int
	// Contributors is the number of distinct contributors before truncation.
	Contributors int
	Entries      []types.Entry
}

// Rank runs the full pipeline: year filter, role split, grouping,
// aggregation, stable descending sort and truncation.
func Rank(ds *model.Dataset, q Query) (Ranking, error) {
	if err := q.Validate(); err != nil {
		return Ranking{}, err
	}

	filtered := FilterYears(ds, q.YearMin, q.YearMax)
	stats := Aggregate(Assignments(filtered, q.Role))

	sort.SliceStable(stats, func(i, j int) bool {
		return sortKey(stats[i], q.Metric) > sortKey(stats[j], q.Metric)
	})

	n := min(q.limit(), len(stats))
	entries := make([]types.Entry, n)
	for i := 0; i < n; i++ {
		s := stats[i]
		entries[i] = types.Entry{
			Position:      i + 1,
			Name:          s.Name,
			Value:         sortKey(s, q.Metric),
			AverageRating: s.AverageRating,
			DramaCount:    s.DramaCount,
		}
	}

	return Ranking{
		Query:        q,
		Records:      len(filtered),
		Contributors: len(stats),
		Entries:      entries,
	}, nil
}

func sortKey(s model.ContributorStat, m types.Metric) float64 {
	if m == types.MetricDramaCount {
		return float64(s.DramaCount)
	}
	return s.AverageRating
}

// FilterYears returns the records released within [yearMin, yearMax], in
// dataset order.
func FilterYears(ds *model.Dataset, yearMin, yearMax int) []model.DramaRecord {
	var out []model.DramaRecord
	ds.Each(func(_ int, r model.DramaRecord) bool {
		if r.Year >= yearMin && r.Year <= yearMax {
			out = append(out, r)
		}
		return true
	})
	return out
}

// Assignments explodes the role field of every record into one assignment per
// listed contributor, each carrying the record's rating.
func Assignments(records []model.DramaRecord, role types.Role) []model.RoleAssignment {
	var out []model.RoleAssignment
	for _, r := range records {
		for _, name := range r.Contributors(role) {
			out = append(out, model.RoleAssignment{Contributor: name, Rating: r.Rating})
		}
	}
	return out
}

// Aggregate groups assignments by exact contributor name and computes the
// mean rating and count per group. Groups are returned in ascending name
// order, which is the tie-break order used by Rank.
func Aggregate(assignments []model.RoleAssignment) []model.ContributorStat {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for _, a := range assignments {
		g, ok := groups[a.Contributor]
		if !ok {
			g = &acc{}
			groups[a.Contributor] = g
		}
		g.sum += a.Rating
		g.count++
	}

	out := make([]model.ContributorStat, 0, len(groups))
	for name, g := range groups {
		out = append(out, model.ContributorStat{
			Name:          name,
			AverageRating: g.sum / float64(g.count),
			DramaCount:    g.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Chart carries the presentation details of a ranking bar chart.
type Chart struct {
	Title       string   `json:"title"`
	XLabel      string   `json:"x_label"`
	YLabel      string   `json:"y_label"`
	ColorScale  string   `json:"color_scale"`
	ValueFormat string   `json:"value_format"`
	Captions    []string `json:"captions"`
}

// Chart derives axis labels and captions from the query.
func (r Ranking) Chart() Chart {
	q := r.Query
	format := "%.0f"
	if q.Metric == types.MetricAverageRating {
		format = "%.2f"
	}
	return Chart{
		Title:       fmt.Sprintf("%s by %s", q.Metric, q.Role),
		XLabel:      q.Metric.AxisLabel(),
		YLabel:      q.Role.String(),
		ColorScale:  q.Metric.ColorScale(),
		ValueFormat: format,
		Captions: []string{
			fmt.Sprintf("Results for dramas released between %d and %d.", q.YearMin, q.YearMax),
			fmt.Sprintf("Showing the top %d %s based on their %s.", q.limit(), q.Role.Plural(), strings.ToLower(q.Metric.String())),
		},
	}
}

// FormatValue renders v the way the chart labels it.
func (c Chart) FormatValue(v float64) string {
	return fmt.Sprintf(c.ValueFormat, v)
}
