package api

import (
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"homedash/pkg/auth"
	"homedash/pkg/model"
	"homedash/pkg/store"
)

const (
	serviceLinkListPath = "/admin/service-link/list"
	msgLinkNotFound     = "Service Link not found"
)

func editLinkPath(id uint) string {
	return "/admin/service-link/edit/" + strconv.FormatUint(uint64(id), 10)
}

func (h *Handler) renderLinkForm(w http.ResponseWriter, p auth.Principal, title, action string, l model.ServiceLink, msg string) {
	h.views.Render(w, http.StatusOK, "service-link-form", view{
		Title:     title,
		Principal: &p,
		Action:    action,
		Link:      &l,
		Error:     msg,
	})
}

func (h *Handler) handleServiceLinkCreatePage(w http.ResponseWriter, _ *http.Request, p auth.Principal) {
	h.renderLinkForm(w, p, "Create Service Link", "/admin/service-link/create", model.ServiceLink{Active: true}, "")
}

func (h *Handler) handleServiceLinkCreate(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req serviceLinkForm
	if err := decodeForm(w, r, &req); err != nil {
		h.renderLinkForm(w, p, "Create Service Link", r.URL.Path, model.ServiceLink{Active: true}, err.Error())
		return
	}
	l := req.model()
	if err := h.store.CreateServiceLink(r.Context(), &l); err != nil {
		if msg, ok := validationMessage(err); ok {
			h.renderLinkForm(w, p, "Create Service Link", r.URL.Path, req.model(), msg)
			return
		}
		serverError(w, r, err, "create service link")
		return
	}
	log.WithFields(log.Fields{"id": l.ID, "by": p.UserName}).Info("service link created")
	http.Redirect(w, r, serviceLinkListPath, http.StatusFound)
}

func (h *Handler) handleServiceLinkList(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	page, search := listQuery(r)
	links, count, err := h.store.FindServiceLinks(r.Context(), store.Filter{Search: search}, store.PageFor(page, adminPageSize))
	if err != nil {
		serverError(w, r, err, "load service links")
		return
	}
	h.views.Render(w, http.StatusOK, "service-link-list", view{
		Title:       "Service Links",
		Principal:   &p,
		Action:      serviceLinkListPath,
		Search:      search,
		CurrentPage: page,
		TotalPages:  store.TotalPages(count, adminPageSize),
		Links:       links,
	})
}

func (h *Handler) handleServiceLinkEditPage(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgLinkNotFound, http.StatusNotFound)
		return
	}
	l, err := h.store.GetServiceLink(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		http.Error(w, msgLinkNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, r, err, "load service link")
		return
	}
	h.renderLinkForm(w, p, "Edit Service Link", editLinkPath(id), l, "")
}

func (h *Handler) handleServiceLinkEdit(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgLinkNotFound, http.StatusNotFound)
		return
	}
	var req serviceLinkForm
	if err := decodeForm(w, r, &req); err != nil {
		h.renderLinkForm(w, p, "Edit Service Link", editLinkPath(id), model.ServiceLink{ID: id}, err.Error())
		return
	}
	_, err := h.store.UpdateServiceLink(r.Context(), id, req.model())
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		http.Error(w, msgLinkNotFound, http.StatusNotFound)
		return
	default:
		if msg, ok := validationMessage(err); ok {
			submitted := req.model()
			submitted.ID = id
			h.renderLinkForm(w, p, "Edit Service Link", editLinkPath(id), submitted, msg)
			return
		}
		serverError(w, r, err, "update service link")
		return
	}
	log.WithFields(log.Fields{"id": id, "by": p.UserName}).Info("service link updated")
	http.Redirect(w, r, serviceLinkListPath, http.StatusFound)
}
