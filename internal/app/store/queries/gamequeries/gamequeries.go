// Package gamequeries turns request query parameters into Mongo filters,
// projections and page parameters for the games collection.
//
// Only exact parameter names are read. Bracketed keys such as
// title[$ne] are never interpreted, and every value ends up as a literal
// (regex-quoted for substring matches), so a client cannot inject an
// operator into a filter.
package gamequeries

import (
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/dalemusser/gamecatalog/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListQuery is the parsed form of GET /api/games.
type ListQuery struct {
	Page      paging.Params
	Platforms []string
	Genres    []string
}

// ParseList reads page, limit, platform and genre.
func ParseList(r *http.Request, maxLimit int) ListQuery {
	return ListQuery{
		Page:      paging.Parse(r, maxLimit),
		Platforms: SplitList(query.Get(r, "platform")),
		Genres:    SplitList(query.Get(r, "genre")),
	}
}

// Filter matches games sharing at least one platform with Platforms and
// at least one genre with Genres. Empty lists add no constraint.
func (q ListQuery) Filter() bson.M {
	filter := bson.M{}
	if len(q.Platforms) > 0 {
		filter["platforms"] = bson.M{"$in": q.Platforms}
	}
	if len(q.Genres) > 0 {
		filter["genre"] = bson.M{"$in": q.Genres}
	}
	return filter
}

// SearchQuery is the parsed form of GET /api/games/search.
type SearchQuery struct {
	Title     string
	Genre     string
	Developer string
	MinRating *float64
	MaxPrice  *float64
}

// ParseSearch reads title, genre, developer, minRating and maxPrice.
// The regex inputs are capped at query.MaxSearchLen bytes. Numeric
// parameters that do not parse to a finite number are treated as absent.
func ParseSearch(r *http.Request) SearchQuery {
	return SearchQuery{
		Title:     searchParam(r, "title"),
		Genre:     query.Get(r, "genre"),
		Developer: searchParam(r, "developer"),
		MinRating: floatParam(r, "minRating"),
		MaxPrice:  floatParam(r, "maxPrice"),
	}
}

// searchParam drops any rune split by the length cap.
func searchParam(r *http.Request, key string) string {
	return strings.ToValidUTF8(query.Search(r, key), "")
}

func floatParam(r *http.Request, key string) *float64 {
	s := strings.TrimSpace(query.Get(r, key))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Filter is the conjunction of every present predicate.
func (q SearchQuery) Filter() bson.M {
	filter := bson.M{}
	if q.Title != "" {
		filter["title"] = containsCI(q.Title)
	}
	if q.Genre != "" {
		filter["genre"] = bson.M{"$in": []string{q.Genre}}
	}
	if q.Developer != "" {
		filter["developer"] = containsCI(q.Developer)
	}
	if q.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *q.MinRating}
	}
	if q.MaxPrice != nil {
		filter["price.amount"] = bson.M{"$lte": *q.MaxPrice}
	}
	return filter
}

// containsCI is a case-insensitive substring match on a literal value.
func containsCI(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// PlatformFilter matches games whose platforms list contains platform exactly.
func PlatformFilter(platform string) bson.M {
	return bson.M{"platforms": platform}
}

// WithDLCFilter matches games whose dlc field is a non-empty list.
func WithDLCFilter() bson.M {
	return bson.M{"dlc": bson.M{"$type": "array", "$ne": bson.A{}}}
}

// SplitList splits a comma-separated parameter, trimming entries and
// dropping empty ones. It returns nil when nothing is left.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Projection builds a projection from a comma-separated field list.
// A leading "-" excludes a field. Names that are empty or start with "$"
// are dropped. When any field is included, exclusions other than _id are
// ignored so the projection is never mixed. It returns nil when no usable
// field remains.
func Projection(fields string) bson.M {
	include := bson.M{}
	exclude := bson.M{}
	for _, name := range SplitList(fields) {
		excluded := strings.HasPrefix(name, "-")
		name = strings.TrimSpace(strings.TrimPrefix(name, "-"))
		if name == "" || strings.HasPrefix(name, "$") {
			continue
		}
		if excluded {
			exclude[name] = 0
		} else {
			include[name] = 1
		}
	}

	switch {
	case len(include) > 0:
		if _, ok := exclude["_id"]; ok {
			include["_id"] = 0
		}
		return include
	case len(exclude) > 0:
		return exclude
	default:
		return nil
	}
}

// ParseProjection reads the "fields" parameter of GET /api/games/{id}.
func ParseProjection(r *http.Request) bson.M {
	return Projection(query.Get(r, "fields"))
}

// FieldProjection projects a single field (plus any extra fields) without _id.
func FieldProjection(field string, extra ...string) bson.M {
	proj := bson.M{field: 1, "_id": 0}
	for _, f := range extra {
		proj[f] = 1
	}
	return proj
}

// DLCProjection keeps the game's _id and title next to its dlc list.
func DLCProjection() bson.M {
	return bson.M{"title": 1, "dlc": 1}
}
