package gamequeries

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dalemusser/gamecatalog/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseList(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/games?page=2&limit=5&platform=PC,%20Xbox,,&genre=RPG", nil)
	q := ParseList(r, paging.MaxLimit)

	assert.Equal(t, paging.Params{Page: 2, Limit: 5}, q.Page)
	assert.Equal(t, []string{"PC", "Xbox"}, q.Platforms)
	assert.Equal(t, []string{"RPG"}, q.Genres)
	assert.Equal(t, bson.M{
		"platforms": bson.M{"$in": []string{"PC", "Xbox"}},
		"genre":     bson.M{"$in": []string{"RPG"}},
	}, q.Filter())
}

func TestListFilter_Empty(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/games?platform=,%20,", nil)
	q := ParseList(r, paging.MaxLimit)
	assert.Empty(t, q.Filter())
	assert.Equal(t, paging.Params{Page: 1, Limit: paging.DefaultLimit}, q.Page)
}

func TestParseSearch(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/games/search?title=Zelda&genre=Adventure&developer=nin&minRating=8&maxPrice=60", nil)
	q := ParseSearch(r)
	f := q.Filter()

	assert.Equal(t, primitive.Regex{Pattern: "Zelda", Options: "i"}, f["title"])
	assert.Equal(t, bson.M{"$in": []string{"Adventure"}}, f["genre"])
	assert.Equal(t, primitive.Regex{Pattern: "nin", Options: "i"}, f["developer"])
	assert.Equal(t, bson.M{"$gte": 8.0}, f["rating"])
	assert.Equal(t, bson.M{"$lte": 60.0}, f["price.amount"])
}

func TestParseSearch_BadNumbersAreAbsent(t *testing.T) {
	for _, raw := range []string{"abc", "NaN", "Inf", "-Inf", ""} {
		t.Run(raw, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/search?minRating="+raw+"&maxPrice="+raw, nil)
			f := ParseSearch(r).Filter()
			assert.NotContains(t, f, "rating")
			assert.NotContains(t, f, "price.amount")
		})
	}
}

func TestParseSearch_QuotesRegex(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?title=.*%5BHalo%5D", nil)
	f := ParseSearch(r).Filter()
	assert.Equal(t, primitive.Regex{Pattern: `\.\*\[Halo\]`, Options: "i"}, f["title"])
}

func TestParseSearch_CapsRegexInputs(t *testing.T) {
	long := strings.Repeat("a", 500)
	r := httptest.NewRequest("GET", "/search?title="+long+"&developer="+long+"&genre="+long, nil)
	q := ParseSearch(r)
	assert.Equal(t, strings.Repeat("a", query.MaxSearchLen), q.Title)
	assert.Equal(t, strings.Repeat("a", query.MaxSearchLen), q.Developer)
	assert.Equal(t, long, q.Genre)

	// 199 ASCII bytes then a two-byte rune straddling the cap.
	split := strings.Repeat("a", query.MaxSearchLen-1) + "é"
	r = httptest.NewRequest("GET", "/search?title="+url.QueryEscape(split), nil)
	q = ParseSearch(r)
	assert.True(t, utf8.ValidString(q.Title))
	assert.Equal(t, strings.Repeat("a", query.MaxSearchLen-1), q.Title)
}

func TestParseSearch_IgnoresBracketedOperators(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?title%5B%24ne%5D=x&minRating%5B%24gt%5D=0", nil)
	assert.Empty(t, ParseSearch(r).Filter())
}

func TestPlatformFilter(t *testing.T) {
	assert.Equal(t, bson.M{"platforms": "Nintendo"}, PlatformFilter("Nintendo"))
}

func TestWithDLCFilter(t *testing.T) {
	assert.Equal(t, bson.M{"dlc": bson.M{"$type": "array", "$ne": bson.A{}}}, WithDLCFilter())
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , ,"))
	assert.Equal(t, []string{"a", "b c"}, SplitList(" a ,b c,"))
}

func TestProjection(t *testing.T) {
	tests := []struct {
		name   string
		fields string
		want   bson.M
	}{
		{"none", "", nil},
		{"inclusion", "title,price", bson.M{"title": 1, "price": 1}},
		{"exclusion", "-description,-dlc", bson.M{"description": 0, "dlc": 0}},
		{"inclusion wins", "title,-description", bson.M{"title": 1}},
		{"id excluded alongside inclusion", "title,-_id", bson.M{"title": 1, "_id": 0}},
		{"operators dropped", "$where,title", bson.M{"title": 1}},
		{"only junk", "$where,-,-$x, ", nil},
		{"nested path", "price.amount", bson.M{"price.amount": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Projection(tt.fields))
		})
	}
}

func TestFieldProjection(t *testing.T) {
	assert.Equal(t, bson.M{"platforms": 1, "_id": 0}, FieldProjection("platforms"))
	assert.Equal(t, bson.M{"dlc": 1, "title": 1, "_id": 0}, FieldProjection("dlc", "title"))
	assert.Equal(t, bson.M{"title": 1, "dlc": 1}, DLCProjection())
}

func TestAllowlist(t *testing.T) {
	a := DefaultAllowlist()
	for _, f := range []string{"title", "price", "rating", "releaseDate", "systemRequirements"} {
		assert.True(t, a.Allowed(f), f)
	}
	for _, f := range []string{"_id", "dlc", "__v", "Title", "price.amount", "$where", ""} {
		assert.False(t, a.Allowed(f), f)
	}

	proj, ok := a.Projection("rating")
	require.True(t, ok)
	assert.Equal(t, bson.M{"rating": 1, "_id": 0}, proj)

	_, ok = a.Projection("password")
	assert.False(t, ok)

	names := []string{"title"}
	custom := NewAllowlist(names...)
	names[0] = "mutated"
	assert.True(t, custom.Allowed("title"))
	assert.False(t, custom.Allowed("mutated"))
}

func TestParseProjection(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/games/x?fields=title,-_id", nil)
	assert.Equal(t, bson.M{"title": 1, "_id": 0}, ParseProjection(r))
	assert.Nil(t, ParseProjection(httptest.NewRequest("GET", "/api/games/x", nil)))
}
