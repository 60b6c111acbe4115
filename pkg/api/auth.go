package api

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"homedash/pkg/auth"
	"homedash/pkg/store"
)

const msgInvalidCredentials = "Invalid credentials"

func (h *Handler) handleLoginPage(w http.ResponseWriter, _ *http.Request) {
	h.views.Render(w, http.StatusOK, "login", view{Title: "Admin Login"})
}

// handleLogin answers every credential mismatch with the same message so
// the page never reveals which field was wrong.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	loginFailed := func(status int, msg string) {
		h.views.Render(w, status, "login", view{Title: "Admin Login", Error: msg})
	}

	var req loginForm
	if err := decodeForm(w, r, &req); err != nil || req.Username == "" || req.Password == "" {
		loginFailed(http.StatusOK, msgInvalidCredentials)
		return
	}
	user, err := h.store.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		log.WithField("userName", req.Username).Info("login rejected")
		loginFailed(http.StatusOK, msgInvalidCredentials)
		return
	}
	if err != nil {
		log.WithError(err).Error("login lookup failed")
		loginFailed(http.StatusInternalServerError, "An error occurred")
		return
	}

	token, err := h.signer.Generate(auth.Principal{ID: user.ID, UserName: user.UserName})
	if err != nil {
		log.WithError(err).Error("sign session token")
		loginFailed(http.StatusInternalServerError, "An error occurred")
		return
	}
	http.SetCookie(w, auth.SessionCookie(r, token, h.signer.TTL()))
	log.WithField("userName", user.UserName).Info("login succeeded")
	http.Redirect(w, r, settingsPath, http.StatusFound)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	http.Redirect(w, r, loginPath, http.StatusFound)
}

func (h *Handler) handleSettings(w http.ResponseWriter, _ *http.Request, p auth.Principal) {
	h.views.Render(w, http.StatusOK, "settings", view{
		Title:     "Admin Settings",
		Principal: &p,
		Version:   h.version,
	})
}
