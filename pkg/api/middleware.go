package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"homedash/pkg/auth"
)

// adminHandler receives the principal proven by the session cookie.
type adminHandler func(w http.ResponseWriter, r *http.Request, p auth.Principal)

// requireSession redirects to the login page unless the request carries a
// valid session token. An invalid token's cookie is cleared.
func (h *Handler) requireSession(next adminHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(auth.CookieName)
		if err != nil || c.Value == "" {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		p, err := h.signer.Parse(c.Value)
		if err != nil {
			log.WithFields(log.Fields{"path": r.URL.Path, "remote": r.RemoteAddr}).Debug("rejected session token")
			auth.ClearCookie(w)
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		next(w, r, p)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// logRequests tags each request with an id and logs its outcome.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		entry := log.WithFields(log.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request completed")
			return
		}
		entry.Info("request completed")
	})
}
