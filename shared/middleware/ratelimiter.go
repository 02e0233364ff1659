package middleware

import (
	"fmt"
	"net"
	"net/http"

	"github.com/itchan-dev/gallery/shared/logger"
	"github.com/itchan-dev/gallery/shared/middleware/ratelimiter"
	"github.com/itchan-dev/gallery/shared/utils"
)

// RateLimit rejects requests once the bucket of getIdentity(r) is empty.
func RateLimit(rl *ratelimiter.KeyedLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				logger.Log.Info("rate limit exceeded", "identity", identity, "path", r.URL.Path)
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetIP extracts the real client IP from RemoteAddr
// Does NOT trust X-Real-IP or X-Forwarded-For headers (no reverse proxy)
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// Fallback: if RemoteAddr doesn't have port, use it directly
		ip = r.RemoteAddr
	}

	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}

	return ip, nil
}

// GetSubjectFromContext keys admin requests by token subject.
// Possible only after AdminOnly ran.
func GetSubjectFromContext(r *http.Request) (string, error) {
	principal := GetPrincipalFromContext(r)
	if principal == nil {
		return "", fmt.Errorf("no principal in request context")
	}
	return "subject_" + principal.Subject, nil
}
