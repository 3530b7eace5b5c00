package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/router"
	"storefront/internal/session"
)

const (
	// SessionCookie is the cookie carrying the session token.
	SessionCookie = "storefront_session"

	sessionContextKey contextKey = "session"
)

// WithSession resolves the visitor's session from the request cookie,
// creating a fresh guest session (and setting the cookie) when none
// exists. Every request downstream of this middleware has a session.
func WithSession(manager *session.Manager) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				sess = manager.Get(cookie.Value)
			}

			if sess == nil {
				created, err := manager.Create()
				if err != nil {
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				sess = created
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sess.Token,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(session.TTL.Seconds()),
				})
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the request's session, or nil outside WithSession.
func SessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionContextKey).(*session.Session)
	return s
}

// ClearSessionCookie expires the session cookie on the response.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// RequireAuth rejects requests from visitors who have not signed in.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		if sess == nil || !sess.SignedIn() {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from accounts without admin access.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		if sess == nil || !sess.SignedIn() {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !sess.Role.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuperAdmin rejects everyone but the superadmin.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		if sess == nil || !sess.SignedIn() {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if sess.Role != domain.RoleSuperAdmin {
			writeJSONError(w, http.StatusForbidden, "Superadmin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
