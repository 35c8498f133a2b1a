package tier

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/holidaysri/promo-api/internal/pkg/response"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// List returns the current tier catalog. Public: the UI renders pricing from it.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.catalog.ListConfigs(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, configs)
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}
