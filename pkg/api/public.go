package api

import (
	"net/http"

	"homedash/pkg/store"
)

// handleIndex lists active service links, newest first.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, search := listQuery(r)
	links, count, err := h.store.FindServiceLinks(r.Context(),
		store.Filter{Search: search, ActiveOnly: true},
		store.PageFor(page, publicPageSize))
	if err != nil {
		serverError(w, r, err, "load landing page")
		return
	}
	h.views.Render(w, http.StatusOK, "index", view{
		Title:       "Dashboard - Home Server",
		Action:      "/",
		Search:      search,
		CurrentPage: page,
		TotalPages:  store.TotalPages(count, publicPageSize),
		Links:       links,
	})
}
