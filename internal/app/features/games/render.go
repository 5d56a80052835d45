package games

import (
	"encoding/json"
	"errors"
	"net/http"

	gamestore "github.com/dalemusser/gamecatalog/internal/app/store/games"
	"github.com/dalemusser/gamecatalog/internal/app/system/decoder"
	"github.com/dalemusser/gamecatalog/internal/app/system/inputval"
	"github.com/dalemusser/gamecatalog/internal/app/system/normalize"
	"github.com/dalemusser/gamecatalog/internal/app/system/telemetry"
	"go.uber.org/zap"
)

type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON normalizes v and writes it with status.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	h.writeValue(w, status, normalize.Response(v))
}

// writeValue writes v as is.
func (h *Handler) writeValue(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Warn("write response failed", zap.Error(err))
	}
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, messageResponse{Message: msg})
}

// writeError maps err onto a status code and a {"message"} body.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *inputval.ValidationError
	var re *decoder.RequestError

	switch {
	case errors.Is(err, gamestore.ErrInvalidID):
		h.writeMessage(w, http.StatusBadRequest, "Invalid ID format")
	case errors.Is(err, gamestore.ErrNotFound):
		h.writeMessage(w, http.StatusNotFound, "Game not found")
	case errors.Is(err, gamestore.ErrDuplicate):
		h.writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &ve):
		h.writeMessage(w, http.StatusBadRequest, ve.Message)
	case errors.As(err, &re):
		h.writeMessage(w, http.StatusBadRequest, re.Message)
	default:
		h.Log.Error("games request failed",
			zap.String("request_id", telemetry.RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		h.writeMessage(w, http.StatusInternalServerError, err.Error())
	}
}
