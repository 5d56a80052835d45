package games

import (
	"context"
	"net/http"

	"github.com/dalemusser/gamecatalog/internal/app/store/queries/gamequeries"
	"github.com/dalemusser/gamecatalog/internal/app/system/paging"
	"github.com/dalemusser/gamecatalog/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// List handles GET /api/games: a page of games filtered by platform and genre.
//
//	{ "games": [...], "totalPages": 3, "currentPage": 1 }
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := gamequeries.ParseList(r, h.MaxPageSize)
	filter := q.Filter()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	games, err := h.Store.FindPage(ctx, filter, q.Page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	total, err := h.Store.Count(ctx, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"games":       games,
		"totalPages":  paging.TotalPages(total, q.Page.Limit),
		"currentPage": q.Page.Page,
	})
}

// Search handles GET /api/games/search. The result is not paginated.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	h.findAll(w, r, gamequeries.ParseSearch(r).Filter())
}

// WithDLC handles GET /api/games/with-dlc.
func (h *Handler) WithDLC(w http.ResponseWriter, r *http.Request) {
	h.findAll(w, r, gamequeries.WithDLCFilter())
}

// ByPlatform handles GET /api/games/platform/{platform}.
func (h *Handler) ByPlatform(w http.ResponseWriter, r *http.Request) {
	h.findAll(w, r, gamequeries.PlatformFilter(chi.URLParam(r, "platform")))
}

func (h *Handler) findAll(w http.ResponseWriter, r *http.Request, filter bson.M) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	games, err := h.Store.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, games)
}
