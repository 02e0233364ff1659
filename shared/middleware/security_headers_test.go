package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeadersWithCSP(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("https with csp", func(t *testing.T) {
		rr := httptest.NewRecorder()
		SecurityHeadersWithCSP(true, "default-src 'none'")(next).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
		assert.Equal(t, "default-src 'none'", rr.Header().Get("Content-Security-Policy"))
		assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
	})

	t.Run("plain http", func(t *testing.T) {
		rr := httptest.NewRecorder()
		SecurityHeadersWithCSP(false, "")(next).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		assert.Empty(t, rr.Header().Get("Content-Security-Policy"))
		assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	})
}

func TestStaticFileHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	StaticFileHeaders(next).ServeHTTP(rr, httptest.NewRequest("GET", "/images/52/logo.svg", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'; sandbox", rr.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "same-site", rr.Header().Get("Cross-Origin-Resource-Policy"))
}
