// internal/app/features/games/routes.go
package games

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted at /api/games. Static segments
// (search, with-dlc, platform) take precedence over {id}.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/search", h.Search)
	r.Get("/with-dlc", h.WithDLC)
	r.Get("/platform/{platform}", h.ByPlatform)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Put("/", h.Replace)
		r.Patch("/", h.Patch)
		r.Delete("/", h.Delete)

		r.Get("/platforms", h.subresource("platforms", "No platforms found for this game"))
		r.Get("/genre", h.subresource("genre", "No genre found for this game"))
		r.Get("/developer", h.Developer)
		r.Get("/screenshots", h.subresource("screenshots", "No screenshots found for this game"))
		r.Get("/requirements", h.subresource("systemRequirements", "No system requirements found for this game"))
		r.Get("/dlc", h.DLC)
		r.Get("/{property}", h.Property)
	})

	return r
}
