package paging

import (
	"math"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		max         int
		want        Params
	}{
		{"defaults kept", 1, 10, 0, Params{1, 10}},
		{"page below one", 0, 10, 0, Params{1, 10}},
		{"negative page", -3, 5, 0, Params{1, 5}},
		{"zero limit", 2, 0, 0, Params{2, DefaultLimit}},
		{"negative limit", 2, -1, 0, Params{2, DefaultLimit}},
		{"limit capped", 1, 1000, 0, Params{1, MaxLimit}},
		{"custom cap", 1, 60, 50, Params{1, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.page, tt.limit, tt.max); got != tt.want {
				t.Errorf("New(%d, %d, %d) = %+v, want %+v", tt.page, tt.limit, tt.max, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		url  string
		want Params
	}{
		{"/", Params{1, 10}},
		{"/?page=3&limit=20", Params{3, 20}},
		{"/?page=abc&limit=xyz", Params{1, 10}},
		{"/?page=0&limit=0", Params{1, 10}},
		{"/?page=2&limit=500", Params{2, 100}},
		{"/?page=2.5", Params{1, 10}},
		{"/?page=99999999999999999999", Params{1, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if got := Parse(r, MaxLimit); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Skip(); got != 0 {
		t.Errorf("Skip page 1 = %d, want 0", got)
	}
	if got := (Params{Page: 4, Limit: 25}).Skip(); got != 75 {
		t.Errorf("Skip page 4 = %d, want 75", got)
	}
}

func TestSkip_HugePageNeverNegative(t *testing.T) {
	for _, limit := range []int{1, 7, 10, MaxLimit} {
		p := New(math.MaxInt, limit, MaxLimit)
		if p.Skip() < 0 {
			t.Errorf("limit %d: Skip = %d, want non-negative", limit, p.Skip())
		}
		if p.Page < 2 {
			t.Errorf("limit %d: page clamped to %d, want a page past any real data", limit, p.Page)
		}
	}

	r := httptest.NewRequest("GET", "/?page=9223372036854775807&limit=100", nil)
	p := Parse(r, MaxLimit)
	if p.Skip() < 0 {
		t.Errorf("Parse(huge page): Skip = %d, want non-negative", p.Skip())
	}
	if opts := p.FindOptions(); opts.Skip == nil || *opts.Skip < 0 {
		t.Errorf("FindOptions skip = %v, want non-negative", opts.Skip)
	}
}

func TestFindOptions(t *testing.T) {
	opts := Params{Page: 3, Limit: 5}.FindOptions()
	if opts.Skip == nil || *opts.Skip != 10 {
		t.Errorf("Skip = %v, want 10", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 5 {
		t.Errorf("Limit = %v, want 5", opts.Limit)
	}
	sort, ok := opts.Sort.(bson.D)
	if !ok || len(sort) != 1 || sort[0].Key != "_id" || sort[0].Value != 1 {
		t.Errorf("Sort = %#v, want _id ascending", opts.Sort)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 2, 13},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
