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
	userListPath    = "/admin/user/list"
	msgUserNotFound = "User not found"
)

func editUserPath(id uint) string {
	return "/admin/user/edit/" + strconv.FormatUint(uint64(id), 10)
}

func (h *Handler) renderUserForm(w http.ResponseWriter, p auth.Principal, title, action string, u model.User, msg string) {
	u.Password = ""
	h.views.Render(w, http.StatusOK, "user-form", view{
		Title:     title,
		Principal: &p,
		Action:    action,
		EditUser:  &u,
		Error:     msg,
	})
}

func (h *Handler) handleUserCreatePage(w http.ResponseWriter, _ *http.Request, p auth.Principal) {
	h.renderUserForm(w, p, "Create User", "/admin/user/create", model.User{Active: true}, "")
}

func (h *Handler) handleUserCreate(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req userForm
	if err := decodeForm(w, r, &req); err != nil {
		h.renderUserForm(w, p, "Create User", r.URL.Path, model.User{Active: true}, err.Error())
		return
	}
	u := req.model()
	if err := h.store.CreateUser(r.Context(), &u, req.Password); err != nil {
		if msg, ok := validationMessage(err); ok {
			h.renderUserForm(w, p, "Create User", r.URL.Path, req.model(), msg)
			return
		}
		serverError(w, r, err, "create user")
		return
	}
	log.WithFields(log.Fields{"id": u.ID, "userName": u.UserName, "by": p.UserName}).Info("user created")
	http.Redirect(w, r, userListPath, http.StatusFound)
}

func (h *Handler) handleUserList(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	page, search := listQuery(r)
	users, count, err := h.store.FindUsers(r.Context(), store.Filter{Search: search}, store.PageFor(page, adminPageSize))
	if err != nil {
		serverError(w, r, err, "load users")
		return
	}
	h.views.Render(w, http.StatusOK, "user-list", view{
		Title:       "Users",
		Principal:   &p,
		Action:      userListPath,
		Search:      search,
		CurrentPage: page,
		TotalPages:  store.TotalPages(count, adminPageSize),
		Users:       users,
	})
}

func (h *Handler) handleUserEditPage(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgUserNotFound, http.StatusNotFound)
		return
	}
	u, err := h.store.GetUser(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		http.Error(w, msgUserNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, r, err, "load user")
		return
	}
	h.renderUserForm(w, p, "Edit User", editUserPath(id), u, "")
}

// handleUserEdit updates every field; the password only when a new one is
// supplied.
func (h *Handler) handleUserEdit(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, msgUserNotFound, http.StatusNotFound)
		return
	}
	var req userForm
	if err := decodeForm(w, r, &req); err != nil {
		h.renderUserForm(w, p, "Edit User", editUserPath(id), model.User{ID: id}, err.Error())
		return
	}
	_, err := h.store.UpdateUser(r.Context(), id, req.update())
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		http.Error(w, msgUserNotFound, http.StatusNotFound)
		return
	default:
		if msg, ok := validationMessage(err); ok {
			submitted := req.model()
			submitted.ID = id
			h.renderUserForm(w, p, "Edit User", editUserPath(id), submitted, msg)
			return
		}
		serverError(w, r, err, "update user")
		return
	}
	log.WithFields(log.Fields{"id": id, "by": p.UserName}).Info("user updated")
	http.Redirect(w, r, userListPath, http.StatusFound)
}
