package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"aula/internal/config"
	"aula/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authConfig(rps float64, burst int) config.APIConfig {
	return config.APIConfig{
		Auth: config.APIAuthConfig{
			Enabled: true,
			APIKeys: []config.APIClientKey{
				{Key: "k-1", Extra: "e-1", Name: "portal", Identity: "portal", Role: "user"},
			},
		},
		RateLimit: config.APIRateLimitConfig{RPS: rps, Burst: burst},
	}
}

func TestWrap_InstallsActor(t *testing.T) {
	auth := NewHTTPAuth(authConfig(0, 0))

	var got models.Actor
	var ok bool
	handler := auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = ActorFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	req.Header.Set("x-api-key", "k-1")
	req.Header.Set("x-api-extra", "e-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, "portal", got.ID)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestWrap_RejectsBadCredentials(t *testing.T) {
	auth := NewHTTPAuth(authConfig(0, 0))
	handler := auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for unauthenticated requests")
	}))

	cases := []struct {
		name  string
		key   string
		extra string
	}{
		{"NoHeaders", "", ""},
		{"KeyOnly", "k-1", ""},
		{"UnknownKey", "k-404", "e-1"},
		{"WrongExtra", "k-1", "nope"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
			if tc.key != "" {
				req.Header.Set("x-api-key", tc.key)
			}
			if tc.extra != "" {
				req.Header.Set("x-api-extra", tc.extra)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestWrap_RateLimitPerKey(t *testing.T) {
	cfg := authConfig(1, 2)
	cfg.Auth.APIKeys = append(cfg.Auth.APIKeys, config.APIClientKey{
		Key: "k-2", Extra: "e-2", Name: "kiosk", Identity: "kiosk", Role: "user",
	})
	auth := NewHTTPAuth(cfg)
	handler := auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(key, extra string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
		req.Header.Set("x-api-key", key)
		req.Header.Set("x-api-extra", extra)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("k-1", "e-1"))
	assert.Equal(t, http.StatusOK, send("k-1", "e-1"))
	assert.Equal(t, http.StatusTooManyRequests, send("k-1", "e-1"))

	// Separate key, separate bucket.
	assert.Equal(t, http.StatusOK, send("k-2", "e-2"))
}

func TestWrap_AuthDisabledActsAsAnonymousAdmin(t *testing.T) {
	auth := NewHTTPAuth(config.APIConfig{})
	called := false
	handler := auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "anonymous", actor.ID)
		assert.Equal(t, models.RoleAdmin, actor.Role)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
