package gamequeries

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson"
)

// Allowlist is the set of top-level fields the generic property route may
// return. A name outside the list is refused before any lookup.
type Allowlist struct {
	fields []string
}

// NewAllowlist builds an allowlist from field names.
func NewAllowlist(fields ...string) Allowlist {
	return Allowlist{fields: slices.Clone(fields)}
}

// DefaultAllowlist lists every public Game field except dlc, which has its
// own route.
func DefaultAllowlist() Allowlist {
	return NewAllowlist(
		"title",
		"platforms",
		"genre",
		"developer",
		"publisher",
		"releaseDate",
		"description",
		"coverImage",
		"screenshots",
		"systemRequirements",
		"price",
		"rating",
	)
}

// Allowed reports whether name is served. Matching is exact.
func (a Allowlist) Allowed(name string) bool {
	return slices.Contains(a.fields, name)
}

// Projection returns {name: 1, _id: 0} for an allowed name, or false.
func (a Allowlist) Projection(name string) (bson.M, bool) {
	if !a.Allowed(name) {
		return nil, false
	}
	return FieldProjection(name), true
}
