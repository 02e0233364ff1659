package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itchan-dev/gallery/shared/domain"
	"github.com/itchan-dev/gallery/shared/middleware/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimit(t *testing.T) {
	limiter := ratelimiter.New(0.001, 2, time.Hour)
	handler := RateLimit(limiter, GetIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func(remote string) int {
		req := httptest.NewRequest("GET", "/v1/galleries/52", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, request("10.0.0.1:5555"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2:1234"), "other clients are unaffected")
	assert.Equal(t, http.StatusInternalServerError, request("not-an-ip"))
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		remote  string
		want    string
		wantErr bool
	}{
		{"192.168.1.1:8080", "192.168.1.1", false},
		{"[::1]:8080", "::1", false},
		{"192.168.1.1", "192.168.1.1", false},
		{"garbage", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote

			ip, err := GetIP(req)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ip)
		})
	}
}

func TestGetSubjectFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, err := GetSubjectFromContext(req)
	assert.Error(t, err)

	ctx := context.WithValue(req.Context(), PrincipalKey, &domain.Principal{Subject: "ops", Admin: true})
	subject, err := GetSubjectFromContext(req.WithContext(ctx))
	require.NoError(t, err)
	assert.Equal(t, "subject_ops", subject)
}
