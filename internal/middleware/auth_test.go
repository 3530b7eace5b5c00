package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/session"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestWithSession_CreatesGuestSession(t *testing.T) {
	manager := session.NewManager()
	handler := WithSession(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		require.NotNil(t, sess)
		assert.False(t, sess.SignedIn())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1, manager.Count())
}

func TestWithSession_ReusesExistingSession(t *testing.T) {
	manager := session.NewManager()
	existing, err := manager.Create()
	require.NoError(t, err)
	existing.Email = "ada@example.com"

	handler := WithSession(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Same(t, existing, SessionFrom(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: existing.Token})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Result().Cookies(), "a known session sets no new cookie")
	assert.Equal(t, 1, manager.Count())
}

func TestGuards(t *testing.T) {
	manager := session.NewManager()

	serve := func(guard func(http.Handler) http.Handler, prepare func(*session.Session)) int {
		sess, err := manager.Create()
		require.NoError(t, err)
		if prepare != nil {
			prepare(sess)
		}

		handler := WithSession(manager)(guard(http.HandlerFunc(okHandler)))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sess.Token})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	signIn := func(role domain.Role) func(*session.Session) {
		return func(s *session.Session) {
			s.Email = "someone@example.com"
			s.Role = role
		}
	}

	assert.Equal(t, http.StatusUnauthorized, serve(RequireAuth, nil))
	assert.Equal(t, http.StatusOK, serve(RequireAuth, signIn(domain.RoleCustomer)))

	assert.Equal(t, http.StatusUnauthorized, serve(RequireAdmin, nil))
	assert.Equal(t, http.StatusForbidden, serve(RequireAdmin, signIn(domain.RoleCustomer)))
	assert.Equal(t, http.StatusOK, serve(RequireAdmin, signIn(domain.RoleAdmin)))
	assert.Equal(t, http.StatusOK, serve(RequireAdmin, signIn(domain.RoleSuperAdmin)))

	assert.Equal(t, http.StatusForbidden, serve(RequireSuperAdmin, signIn(domain.RoleAdmin)))
	assert.Equal(t, http.StatusOK, serve(RequireSuperAdmin, signIn(domain.RoleSuperAdmin)))
}

func TestWriteJSONError_EscapesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSONError(w, http.StatusForbidden, `access to "changelog" denied`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, `access to "changelog" denied`, body["error"])
}
