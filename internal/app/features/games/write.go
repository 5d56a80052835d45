package games

import (
	"context"
	"net/http"

	gamestore "github.com/dalemusser/gamecatalog/internal/app/store/games"
	"github.com/dalemusser/gamecatalog/internal/app/system/decoder"
	"github.com/dalemusser/gamecatalog/internal/app/system/inputval"
	"github.com/dalemusser/gamecatalog/internal/app/system/timeouts"
	"github.com/dalemusser/gamecatalog/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Create handles POST /api/games and responds 201 with the stored game.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var g models.Game
	if err := decoder.DecodeJSONBody(w, r, &g); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := inputval.Struct(g); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, g)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Log.Info("game created", zap.Any("id", created["_id"]), zap.String("title", g.Title))
	h.writeJSON(w, http.StatusCreated, created)
}

// Replace handles PUT /api/games/{id}: the body is a complete game that
// replaces every stored field.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := gamestore.ParseID(id); err != nil {
		h.writeError(w, r, err)
		return
	}

	var g models.Game
	if err := decoder.DecodeJSONBody(w, r, &g); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := inputval.Struct(g); err != nil {
		h.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Store.Replace(ctx, id, g)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// Patch handles PATCH /api/games/{id}: only the fields present in the body
// are changed.
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := gamestore.ParseID(id); err != nil {
		h.writeError(w, r, err)
		return
	}

	var p models.GamePatch
	if err := decoder.DecodeJSONBody(w, r, &p); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := inputval.Struct(p); err != nil {
		h.writeError(w, r, err)
		return
	}
	set := p.Set()
	if len(set) == 0 {
		h.writeMessage(w, http.StatusBadRequest, "No fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Store.Update(ctx, id, set)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/games/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Log.Info("game deleted", zap.String("id", id))
	h.writeMessage(w, http.StatusOK, "Game deleted successfully")
}
