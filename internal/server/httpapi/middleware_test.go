package httpapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkazakov/studentapi/internal/server/auth"
)

func TestRateLimit_RejectsOverWindow(t *testing.T) {
	srv, _, _ := newTestServer(t, serverOptions{rateLimitWindow: 10 * time.Second, rateLimitPermits: 3})

	for i := 0; i < 3; i++ {
		rec := doRequest(srv, "GET", "/health", "", nil)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	rec := doRequest(srv, "GET", "/health", "", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("Retry-After"))
	assert.Equal(t, "Too many requests", decodeEnvelope(t, rec).Message)
}

func TestSecurityHeaders(t *testing.T) {
	srv, _, _ := newTestServer(t, serverOptions{})

	rec := doRequest(srv, "GET", "/health", "", nil)
	h := rec.Header()
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Equal(t, "default-src 'self'", h.Get("Content-Security-Policy"))
}

func TestIdentityFromContext(t *testing.T) {
	id := &auth.Identity{Name: "admin", Roles: []string{auth.RoleAdmin}}
	ctx := context.WithValue(context.Background(), identityKey, id)

	got, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestClientKey(t *testing.T) {
	r, _ := http.NewRequest("GET", "/health", nil)
	r.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "192.0.2.7", clientKey(r))

	r.RemoteAddr = "garbage"
	assert.Equal(t, anonymousKey, clientKey(r))
}
