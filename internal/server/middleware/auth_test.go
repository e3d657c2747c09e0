package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClaims string

func (c testClaims) GetClientID() string { return string(c) }

type testTokenValidator map[string]string

func (v testTokenValidator) ValidateToken(token string) (ClientIDGetter, error) {
	id, ok := v[token]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return testClaims(id), nil
}

func protectedHandler(t *testing.T, seen *string) http.Handler {
	t.Helper()
	return AuthMiddleware(testTokenValidator{"good-token": "storefront"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*seen = ClientID(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}),
	)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	var seen string
	handler := protectedHandler(t, &seen)

	for _, header := range []string{"Bearer good-token", "bearer good-token", "  BEARER   good-token "} {
		req := httptest.NewRequest(http.MethodPost, "/recommendations", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusNoContent, w.Code, header)
		assert.Equal(t, "storefront", seen)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"no token", "Bearer"},
		{"extra parts", "Bearer good-token extra"},
		{"unknown token", "Bearer forged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := "untouched"
			req := httptest.NewRequest(http.MethodPost, "/recommendations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			protectedHandler(t, &seen).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
			assert.Equal(t, "untouched", seen, "next handler must not run")
		})
	}
}

func TestClientID_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	assert.Empty(t, ClientID(req.Context()))
	assert.Equal(t, "cli", ClientID(WithClientID(req.Context(), "cli")))
}
