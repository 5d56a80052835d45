package games

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/gamecatalog/internal/app/store/queries/gamequeries"
	"github.com/dalemusser/gamecatalog/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
)

// Show handles GET /api/games/{id}. An optional ?fields=a,b,-c limits the
// returned fields.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	proj := gamequeries.ParseProjection(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	game, err := h.Store.GetByID(ctx, chi.URLParam(r, "id"), proj)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, game)
}

// fetch loads the projected game. ok is false (and a response has been
// written) when the lookup failed.
func (h *Handler) fetch(w http.ResponseWriter, r *http.Request, proj bson.M) (bson.M, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	game, err := h.Store.GetByID(ctx, chi.URLParam(r, "id"), proj)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return game, true
}

// subresource serves one stored field as a bare value, or 404 with
// notFound when the field is missing or empty.
func (h *Handler) subresource(field, notFound string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, ok := h.fetch(w, r, gamequeries.FieldProjection(field))
		if !ok {
			return
		}
		v, present := game[field]
		if !present || isEmpty(v) {
			h.writeMessage(w, http.StatusNotFound, notFound)
			return
		}
		h.writeJSON(w, http.StatusOK, v)
	}
}

// Developer handles GET /api/games/{id}/developer. Unlike the other
// sub-resources the value is wrapped: {"developer": "..."}.
func (h *Handler) Developer(w http.ResponseWriter, r *http.Request) {
	game, ok := h.fetch(w, r, gamequeries.FieldProjection("developer"))
	if !ok {
		return
	}
	v, present := game["developer"]
	if !present || isEmpty(v) {
		h.writeMessage(w, http.StatusNotFound, "No developer found for this game")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"developer": v})
}

// DLC handles GET /api/games/{id}/dlc: {"_id", "title", "dlc": [...]}.
// An empty list is returned as is; a missing or non-list dlc is 404.
func (h *Handler) DLC(w http.ResponseWriter, r *http.Request) {
	game, ok := h.fetch(w, r, gamequeries.DLCProjection())
	if !ok {
		return
	}
	switch game["dlc"].(type) {
	case bson.A, []any:
	default:
		h.writeMessage(w, http.StatusNotFound, "No DLC found for this game")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"_id":   game["_id"],
		"title": game["title"],
		"dlc":   game["dlc"],
	})
}

// Property handles GET /api/games/{id}/{property} for allowlisted fields.
// Any other name is refused before the game is looked up.
func (h *Handler) Property(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "property")
	proj, allowed := h.Allowlist.Projection(name)
	if !allowed {
		h.writeMessage(w, http.StatusBadRequest, "Invalid property requested")
		return
	}

	game, ok := h.fetch(w, r, proj)
	if !ok {
		return
	}
	v, present := game[name]
	if !present {
		h.writeMessage(w, http.StatusNotFound, "No "+name+" found for this game")
		return
	}

	// The bare value is served as stored.
	h.writeValue(w, http.StatusOK, v)
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bson.A:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case bson.M:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case bson.D:
		return len(t) == 0
	default:
		return false
	}
}
