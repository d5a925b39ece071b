// Package model contains domain models passed between layers.
package model

import (
	"strings"

	"github.com/okian/kdrama/internal/domain/types"
)

// Rating bounds accepted at load time.
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// DramaRecord is one validated row of the dataset.
type DramaRecord struct {
	Name         string
	Rank         int
	Rating       float64
	Year         int    // year of release
	Director     string // comma-separated names
	Screenwriter string // comma-separated names
	Cast         string // comma-separated names
}

// Field returns the raw comma-separated value for role.
func (r DramaRecord) Field(role types.Role) string {
	switch role {
	case types.RoleDirector:
		return r.Director
	case types.RoleScreenwriter:
		return r.Screenwriter
	case types.RoleCast:
		return r.Cast
	default:
		return ""
	}
}

// Contributors returns the trimmed, non-empty names listed for role.
func (r DramaRecord) Contributors(role types.Role) []string {
	return SplitContributors(r.Field(role))
}

// SplitContributors splits a comma-separated role field. Tokens are trimmed
// of surrounding whitespace and empty tokens are dropped; no other
// normalisation is applied.
func SplitContributors(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// RoleAssignment pairs one contributor with the rating of a drama they
// worked on.
type RoleAssignment struct {
	Contributor string
	Rating      float64
}

// ContributorStat aggregates the assignments of a single contributor.
type ContributorStat struct {
	Name          string
	AverageRating float64
	DramaCount    int
}
