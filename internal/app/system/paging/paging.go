// internal/app/system/paging/paging.go
package paging

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size used when the client sends none (or a bad one).
const DefaultLimit = 10

// MaxLimit caps the page size a client may request.
const MaxLimit = 100

// Params is a clamped 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// New clamps page and limit: page < 1 becomes 1, limit < 1 becomes
// DefaultLimit, and limit > maxLimit becomes maxLimit. A maxLimit < 1
// means MaxLimit. page is also capped so that Skip fits in an int64.
func New(page, limit, maxLimit int) Params {
	if maxLimit < 1 {
		maxLimit = MaxLimit
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	// Keep (page-1)*limit within int64 so Skip never wraps negative.
	if maxPage := math.MaxInt64 / int64(limit); int64(page) > maxPage {
		page = int(maxPage)
	}
	return Params{Page: page, Limit: limit}
}

// Parse reads the "page" and "limit" query parameters. Values that are
// missing or not integers fall back to their defaults before clamping.
func Parse(r *http.Request, maxLimit int) Params {
	return New(intParam(r, "page", 1), intParam(r, "limit", DefaultLimit), maxLimit)
}

func intParam(r *http.Request, key string, def int) int {
	s := query.Get(r, key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Skip is the number of documents before the first one on this page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// FindOptions returns skip/limit options in stable _id order.
func (p Params) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))
}

// TotalPages returns ceil(total/limit), 0 for an empty result.
func TotalPages(total int64, limit int) int64 {
	if total <= 0 || limit < 1 {
		return 0
	}
	return int64(math.Ceil(float64(total) / float64(limit)))
}
