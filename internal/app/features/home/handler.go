package home

import (
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Banner is the body of GET /.
const Banner = "Video Game API is running"

// Handler serves the service root.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – liveness text                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, Banner); err != nil {
		h.Log.Debug("write root banner failed", zap.Error(err))
	}
}
