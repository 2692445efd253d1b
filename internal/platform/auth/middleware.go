// Package auth resolves the authenticated caller to a subject id. Tokens
// are HS256 bearer JWTs whose subject claim is the subject uuid; in
// development mode requests may instead name a subject directly through
// the X-Subject-ID header.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

// SubjectIDKey is the request-context key holding the caller's subject id.
const SubjectIDKey contextKey = "subject_id"

// DevSubjectHeader names the subject directly in development mode.
const DevSubjectHeader = "X-Subject-ID"

// Claims are the token claims this service reads.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTMiddleware validates the bearer token and stores its subject claim on
// the request context.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}

			ctx := context.WithValue(c.Request().Context(), SubjectIDKey, claims.Subject)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// DevAuthMiddleware is the permissive development middleware: it trusts
// the X-Subject-ID header and leaves unauthenticated requests through.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sid := c.Request().Header.Get(DevSubjectHeader); sid != "" {
				ctx := context.WithValue(c.Request().Context(), SubjectIDKey, sid)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// SubjectFromContext returns the authenticated subject id, empty when the
// request carried none.
func SubjectFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(SubjectIDKey).(string)
	return sid
}
