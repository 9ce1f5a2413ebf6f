package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func guarded(t *testing.T) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, err := GetSubjectFromContext(r.Context())
		require.NoError(t, err)
		w.Header().Set("X-Subject", sub)
		w.WriteHeader(http.StatusNoContent)
	})
	return Authenticate(testSecret)(Authorize(RoleAdmin)(next))
}

func request(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestGuard_AllowsAdmin(t *testing.T) {
	token, err := IssueToken(testSecret, "ops", RoleAdmin, time.Hour, time.Now())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	guarded(t).ServeHTTP(rec, request(token))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "ops", rec.Header().Get("X-Subject"))
}

func TestGuard_Rejections(t *testing.T) {
	viewer, err := IssueToken(testSecret, "fan", "viewer", time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, "ops", RoleAdmin, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	foreign, err := IssueToken([]byte("other"), "ops", RoleAdmin, time.Hour, time.Now())
	require.NoError(t, err)
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "ops", "role": RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusUnauthorized},
		{"expired", expired, http.StatusUnauthorized},
		{"wrong secret", foreign, http.StatusUnauthorized},
		{"alg none", unsigned, http.StatusUnauthorized},
		{"wrong role", viewer, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			guarded(t).ServeHTTP(rec, request(tt.token))
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestIssueToken_EmptySecret(t *testing.T) {
	_, err := IssueToken(nil, "ops", RoleAdmin, time.Hour, time.Now())
	assert.Error(t, err)
}

func TestParseToken_Claims(t *testing.T) {
	token, err := IssueToken(testSecret, "ops", RoleAdmin, time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims["sub"])
	assert.Equal(t, RoleAdmin, claims["role"])
}
