package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns dashboard routes. The caller mounts these behind the
// session middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/dashboard", h.Dashboard)
	r.Get("/transactions", h.Transactions)

	return r
}
