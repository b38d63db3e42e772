package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diagnosis/lighthouse-point/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireServiceToken(t *testing.T) {
	var seen *auth.Claims
	h := RequireServiceToken("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = Claims(r)
	}))

	good, err := auth.NewRelayToken("secret", time.Minute)
	require.NoError(t, err)
	wrongScope, err := auth.NewServiceToken("web", "rooms:read", "secret", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"wrong scope", "Bearer " + wrongScope, http.StatusUnauthorized},
		{"valid", "Bearer " + good, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/booking-notify", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, "web", seen.Service)
}

func TestRequireServiceToken_DisabledWithoutSecret(t *testing.T) {
	h := RequireServiceToken("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
