package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/itchan-dev/gallery/shared/domain"
	jwt_internal "github.com/itchan-dev/gallery/shared/jwt"
	"github.com/itchan-dev/gallery/shared/logger"
	"github.com/itchan-dev/gallery/shared/utils"
)

// Key to store the principal in the request context
type key int

const PrincipalKey key = 0

const accessTokenCookie = "accessToken"

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService    jwt_internal.JwtService
	secureCookies bool
}

// NewAuth creates a new Auth middleware instance
func NewAuth(jwtService jwt_internal.JwtService, secureCookies bool) *Auth {
	return &Auth{
		jwtService:    jwtService,
		secureCookies: secureCookies,
	}
}

// AdminOnly returns middleware that requires an admin token
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, fromCookie, err := a.extractPrincipal(r)
			if err != nil {
				switch err {
				case errNoToken:
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
				case errInvalidClaims:
					logger.Log.Error("invalid jwt claims")
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				default:
					// Token decode error
					if fromCookie {
						a.clearCookie(w)
					}
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			if !principal.Admin {
				http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractPrincipal reads the token from the accessToken cookie (browsers) or
// the Authorization header (API clients).
func (a *Auth) extractPrincipal(r *http.Request) (*domain.Principal, bool, error) {
	var tokenString string
	fromCookie := false
	if accessCookie, err := r.Cookie(accessTokenCookie); err == nil {
		tokenString = accessCookie.Value
		fromCookie = true
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, fromCookie, errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, fromCookie, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fromCookie, errInvalidClaims
	}

	subject, ok := claims["sub"].(string)
	if !ok {
		return nil, fromCookie, errInvalidClaims
	}

	isAdmin, ok := claims["admin"].(bool)
	if !ok {
		return nil, fromCookie, errInvalidClaims
	}

	return &domain.Principal{Subject: subject, Admin: isAdmin}, fromCookie, nil
}

func (a *Auth) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     accessTokenCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Sentinel errors for extractPrincipal
var (
	errNoToken       = errorString("no token")
	errInvalidClaims = errorString("invalid claims")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// GetPrincipalFromContext retrieves the principal from the context
func GetPrincipalFromContext(r *http.Request) *domain.Principal {
	principal, ok := r.Context().Value(PrincipalKey).(*domain.Principal)
	if !ok {
		return nil
	}
	return principal
}
