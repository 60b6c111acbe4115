package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"homedash/pkg/auth"
	"homedash/pkg/model"
	"homedash/pkg/store"
)

const (
	loginPath    = "/admin/login"
	settingsPath = "/admin/settings"

	publicPageSize = 30
	adminPageSize  = 20
)

// Handler serves the public dashboard and the admin area.
type Handler struct {
	store   store.Store
	signer  *auth.Signer
	views   *Renderer
	version string
}

func NewHandler(st store.Store, signer *auth.Signer, views *Renderer, version string) *Handler {
	return &Handler{store: st, signer: signer, views: views, version: version}
}

// Routes returns the full HTTP surface wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return logRequests(mux)
}

// RegisterRoutes wires the HTTP handlers on the provided mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /healthz", h.handleHealth)

	mux.HandleFunc("GET "+loginPath, h.handleLoginPage)
	mux.HandleFunc("POST "+loginPath, h.handleLogin)
	mux.HandleFunc("GET /admin/logout", h.handleLogout)
	mux.HandleFunc("GET "+settingsPath, h.requireSession(h.handleSettings))

	mux.HandleFunc("GET /admin/service-link/create", h.requireSession(h.handleServiceLinkCreatePage))
	mux.HandleFunc("POST /admin/service-link/create", h.requireSession(h.handleServiceLinkCreate))
	mux.HandleFunc("GET /admin/service-link/list", h.requireSession(h.handleServiceLinkList))
	mux.HandleFunc("GET /admin/service-link/edit/{id}", h.requireSession(h.handleServiceLinkEditPage))
	mux.HandleFunc("POST /admin/service-link/edit/{id}", h.requireSession(h.handleServiceLinkEdit))

	mux.HandleFunc("GET /admin/user/create", h.requireSession(h.handleUserCreatePage))
	mux.HandleFunc("POST /admin/user/create", h.requireSession(h.handleUserCreate))
	mux.HandleFunc("GET /admin/user/list", h.requireSession(h.handleUserList))
	mux.HandleFunc("GET /admin/user/edit/{id}", h.requireSession(h.handleUserEditPage))
	mux.HandleFunc("POST /admin/user/edit/{id}", h.requireSession(h.handleUserEdit))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		log.WithError(err).Warn("health check failed")
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// listQuery reads page and search from the query string. Malformed or
// non-positive pages fall back to 1.
func listQuery(r *http.Request) (page int, search string) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return page, q.Get("search")
}

// pathID parses the {id} wildcard. ok is false for anything that cannot
// name a row.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log.WithFields(log.Fields{"method": r.Method, "path": r.URL.Path}).WithError(err).Error(msg)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// validationMessage extracts the inline message of a rejected write.
func validationMessage(err error) (string, bool) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
