// Package normalize is the presentation pass applied to every JSON payload
// the API writes.
//
// For each game-like mapping it formats releaseDate as YYYY-MM-DD, coerces
// price.amount to a float and gives coverImage an image extension. Inputs
// are copied, never modified, and the pass is idempotent.
package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/gamecatalog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var imageExt = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif)$`)

// Response normalizes a single game, a list of games, or an envelope
// holding a "games" list. Other values are returned unchanged.
func Response(v any) any {
	switch t := v.(type) {
	case bson.M:
		return bson.M(object(t))
	case map[string]any:
		return object(t)
	case []bson.M:
		out := make([]bson.M, len(t))
		for i, m := range t {
			out[i] = bson.M(object(m))
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, m := range t {
			out[i] = object(m)
		}
		return out
	case bson.A:
		return bson.A(list(t))
	case []any:
		return list(t)
	default:
		return v
	}
}

func list(in []any) []any {
	out := make([]any, len(in))
	for i, item := range in {
		switch item.(type) {
		case bson.M, map[string]any:
			out[i] = Response(item)
		default:
			out[i] = item
		}
	}
	return out
}

func object(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}

	if games, ok := out["games"]; ok {
		switch games.(type) {
		case []bson.M, []map[string]any, bson.A, []any:
			out["games"] = Response(games)
		}
	}

	if d, ok := out["releaseDate"]; ok {
		if s, ok := FormatDate(d); ok {
			out["releaseDate"] = s
		}
	}

	if p, ok := out["price"]; ok {
		out["price"] = price(p)
	}

	if c, ok := out["coverImage"].(string); ok {
		out["coverImage"] = CoverImage(c)
	}
	return out
}

// FormatDate renders a stored or client-supplied date as YYYY-MM-DD in UTC.
// It reports false for empty or unrecognised values.
func FormatDate(v any) (string, bool) {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return "", false
		}
		t = *d
	case primitive.DateTime:
		t = d.Time()
	case models.Date:
		t = d.Time
	case *models.Date:
		if d == nil {
			return "", false
		}
		t = d.Time
	case string:
		if strings.TrimSpace(d) == "" {
			return "", false
		}
		parsed, err := models.ParseDate(d)
		if err != nil {
			return "", false
		}
		t = parsed.Time
	default:
		return "", false
	}
	if t.IsZero() {
		return "", false
	}
	return t.UTC().Format(models.DateLayout), true
}

func price(p any) any {
	switch t := p.(type) {
	case bson.M:
		return bson.M(priceMap(t))
	case map[string]any:
		return priceMap(t)
	case bson.D:
		out := make(bson.D, len(t))
		copy(out, t)
		for i, e := range out {
			if e.Key == "amount" {
				if f, ok := Amount(e.Value); ok {
					out[i].Value = f
				}
			}
		}
		return out
	default:
		return p
	}
}

func priceMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	if a, ok := out["amount"]; ok {
		if f, ok := Amount(a); ok {
			out["amount"] = f
		}
	}
	return out
}

// Amount converts a numeric value of any stored form to float64. Strings
// that do not parse to a finite number report false.
func Amount(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case models.Amount:
		return n.Float(), true
	case json.Number:
		return parseFloat(n.String())
	case primitive.Decimal128:
		return parseFloat(n.String())
	case string:
		return parseFloat(n)
	default:
		return 0, false
	}
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoverImage appends ".jpg" to a non-empty URL that does not already end
// in .jpg, .jpeg, .png or .gif (any case).
func CoverImage(url string) string {
	if url == "" || imageExt.MatchString(url) {
		return url
	}
	return url + ".jpg"
}
