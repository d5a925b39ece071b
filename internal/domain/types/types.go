// Package types contains common types used across the application
package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for selector parsing.
var (
	ErrUnknownRole   = errors.New("unknown role")
	ErrUnknownMetric = errors.New("unknown metric")
)

// Role selects which contributor field of a drama record is analysed.
// The zero value is RoleUnselected, meaning the user has not picked one yet.
type Role int

// Role variants.
const (
	RoleUnselected Role = iota
	RoleDirector
	RoleScreenwriter
	RoleCast
)

// Roles lists the selectable roles in display order.
var Roles = []Role{RoleDirector, RoleScreenwriter, RoleCast}

// Selected reports whether r is a concrete role.
func (r Role) Selected() bool {
	return r == RoleDirector || r == RoleScreenwriter || r == RoleCast
}

// String returns the display label, which is also the dataset column name.
func (r Role) String() string {
	switch r {
	case RoleDirector:
		return "Director"
	case RoleScreenwriter:
		return "Screenwriter"
	case RoleCast:
		return "Cast"
	default:
		return ""
	}
}

// Key returns the lowercase wire identifier.
func (r Role) Key() string {
	return strings.ToLower(r.String())
}

// Plural returns the label used in captions, e.g. "Directors".
func (r Role) Plural() string {
	if !r.Selected() {
		return ""
	}
	return r.String() + "s"
}

// ParseRole maps user input to a Role. Empty input yields RoleUnselected.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RoleUnselected, nil
	case "director", "directors":
		return RoleDirector, nil
	case "screenwriter", "screenwriters", "writer":
		return RoleScreenwriter, nil
	case "cast", "actor", "actors":
		return RoleCast, nil
	}
	return RoleUnselected, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Metric selects the aggregate used for ranking contributors.
// The zero value is MetricUnselected.
type Metric int

// Metric variants.
const (
	MetricUnselected Metric = iota
	MetricAverageRating
	MetricDramaCount
)

// Metrics lists the selectable metrics in display order.
var Metrics = []Metric{MetricAverageRating, MetricDramaCount}

// Selected reports whether m is a concrete metric.
func (m Metric) Selected() bool {
	return m == MetricAverageRating || m == MetricDramaCount
}

// String returns the option label shown in the metric selector.
func (m Metric) String() string {
	switch m {
	case MetricAverageRating:
		return "Average Rating"
	case MetricDramaCount:
		return "Number of Dramas"
	default:
		return ""
	}
}

// Key returns the wire identifier.
func (m Metric) Key() string {
	switch m {
	case MetricAverageRating:
		return "average_rating"
	case MetricDramaCount:
		return "drama_count"
	default:
		return ""
	}
}

// AxisLabel is the value-axis title of the ranking chart.
func (m Metric) AxisLabel() string {
	switch m {
	case MetricAverageRating:
		return "Average Rating"
	case MetricDramaCount:
		return "Total Dramas"
	default:
		return ""
	}
}

// ColorScale names the continuous colour scale used for the chart bars.
func (m Metric) ColorScale() string {
	switch m {
	case MetricAverageRating:
		return "RdPu"
	case MetricDramaCount:
		return "Blues"
	default:
		return ""
	}
}

// ParseMetric maps user input to a Metric. Empty input yields MetricUnselected.
func ParseMetric(s string) (Metric, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch norm {
	case "":
		return MetricUnselected, nil
	case "average_rating", "avg_rating", "avg", "rating":
		return MetricAverageRating, nil
	case "number_of_dramas", "drama_count", "count", "dramas", "total_dramas":
		return MetricDramaCount, nil
	}
	return MetricUnselected, fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Option is a selectable value exposed to clients.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// RoleOptions returns the role selector options.
func RoleOptions() []Option {
	out := make([]Option, 0, len(Roles))
	for _, r := range Roles {
		out = append(out, Option{Key: r.Key(), Label: r.String()})
	}
	return out
}

// MetricOptions returns the metric selector options.
func MetricOptions() []Option {
	out := make([]Option, 0, len(Metrics))
	for _, m := range Metrics {
		out = append(out, Option{Key: m.Key(), Label: m.String()})
	}
	return out
}

// SearchRow is one row of the search view.
type SearchRow struct {
	Name   string  `json:"name"`
	Rank   int     `json:"rank"`
	Rating float64 `json:"rating"`
}

// Entry is one bar of the ranking chart.
type Entry struct {
	Position      int     `json:"position"`
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	AverageRating float64 `json:"average_rating"`
	DramaCount    int     `json:"drama_count"`
}
