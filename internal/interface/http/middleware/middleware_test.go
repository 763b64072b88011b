package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/jwt"
)

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsInBlacklist(_ context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[token], nil
}

type reply struct {
	Code int `json:"code"`
}

func newEngine(auth gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), RequestLogger())
	r.GET("/whoami", auth, func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "roles": p.Roles, "token": GetAccessToken(c)})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func code(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var out reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out.Code
}

func TestRequireAuth(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	pair, err := manager.GenerateToken(7, "maria@gmail.com", []string{"ROLE_CLIENT"})
	require.NoError(t, err)
	revoked, err := manager.GenerateToken(8, "bob@gmail.com", []string{"ROLE_CLIENT"})
	require.NoError(t, err)

	blacklist := &fakeBlacklist{revoked: map[string]bool{revoked.AccessToken: true}}
	r := newEngine(NewAuthMiddleware(manager, blacklist).RequireAuth())

	cases := []struct {
		name          string
		authorization string
		status        int
		code          int
	}{
		{"no header", "", http.StatusUnauthorized, apperrors.ErrCodeUnauthorized},
		{"not bearer", "Basic " + pair.AccessToken, http.StatusUnauthorized, apperrors.ErrCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, apperrors.ErrCodeInvalidToken},
		{"refresh token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized, apperrors.ErrCodeInvalidToken},
		{"revoked token", "Bearer " + revoked.AccessToken, http.StatusUnauthorized, apperrors.ErrCodeTokenExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(r, "/whoami", tc.authorization)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, code(t, w))
		})
	}

	w := get(r, "/whoami", "bearer "+pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"user_id":7,"roles":["ROLE_CLIENT"],"token":"`+pair.AccessToken+`"}`, w.Body.String())
}

func TestRequireAuthBlacklistFailure(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	pair, err := manager.GenerateToken(7, "maria@gmail.com", nil)
	require.NoError(t, err)

	blacklist := &fakeBlacklist{err: apperrors.Wrap(errors.New("redis down"), "Check blacklist failed")}
	r := newEngine(NewAuthMiddleware(manager, blacklist).RequireAuth())

	w := get(r, "/whoami", "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "redis down")
}

func TestOptionalAuth(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	pair, err := manager.GenerateToken(3, "ana@gmail.com", []string{"ROLE_MEMBER"})
	require.NoError(t, err)
	r := newEngine(NewAuthMiddleware(manager, &fakeBlacklist{}).OptionalAuth())

	w := get(r, "/whoami", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())

	w = get(r, "/whoami", "Bearer not-a-jwt")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())

	w = get(r, "/whoami", "Bearer "+pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":3`)
}

func TestRequestID(t *testing.T) {
	r := newEngine(func(c *gin.Context) { c.Next() })

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

	w = get(r, "/whoami", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.NotEqual(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	r := newEngine(func(c *gin.Context) { c.Next() })

	w := get(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.ErrCodeInternal, code(t, w))
	assert.NotContains(t, w.Body.String(), "boom")
}
