package home

import "github.com/go-chi/chi/v5"

// Routes serves the root text. Mount it at "/" before any other
// sub-router so it does not swallow their paths.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeRoot)
	r.Head("/", h.ServeRoot)
	return r
}
