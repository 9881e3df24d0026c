package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/codeclash/codeclash/internal/auth"
)

func TestUserRoutes_Authorization(t *testing.T) {
	r, _ := makeAPI(t)

	tests := map[string]struct {
		method, path string
		token        string
		wantStatus   int
	}{
		"list users without token": {
			method:     http.MethodGet,
			path:       "/users",
			wantStatus: http.StatusUnauthorized,
		},
		"list users as non-admin": {
			method:     http.MethodGet,
			path:       "/users",
			token:      issueToken(t, "u1", false),
			wantStatus: http.StatusForbidden,
		},
		"read another user's profile as non-admin": {
			method:     http.MethodGet,
			path:       "/users/u2",
			token:      issueToken(t, "u1", false),
			wantStatus: http.StatusForbidden,
		},
		"update another user as non-admin": {
			method:     http.MethodPut,
			path:       "/users/u2",
			token:      issueToken(t, "u1", false),
			wantStatus: http.StatusForbidden,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			w := doAs(t, r, tt.token, tt.method, tt.path, "")
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSubmissionRoutes_RequireAuth(t *testing.T) {
	r, _ := makeAPI(t)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		w := doAs(t, r, "", method, "/submissions/s1", "")
		require.Equal(t, http.StatusUnauthorized, w.Code, "%s /submissions/:id", method)
	}
}

// --- helpers ---

func issueToken(t *testing.T, userID string, admin bool) string {
	t.Helper()

	tok, err := auth.NewManager("test-secret", time.Hour).Issue(userID, admin)
	require.NoError(t, err)
	return tok
}

func doAs(t *testing.T, r *gin.Engine, token, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
