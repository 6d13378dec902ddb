// ABOUTME: This file implements bearer token authentication for the frontend API
// ABOUTME: Validates HMAC-signed JWTs issued to the edit page and exposes the user id
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// userIDContextKey is the echo context key the authenticated user id is
// stored under.
const userIDContextKey = "auth_user_id"

// JWTAuth validates Bearer tokens on frontend API requests. With an empty
// secret the middleware is a no-op so local setups work without auth.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return next(c)
			}

			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			claims := jwt.MapClaims{}

			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}

				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if sub, ok := claims["sub"].(string); ok && sub != "" {
				c.Set(userIDContextKey, sub)
			}

			return next(c)
		}
	}
}

// AuthenticatedUserID returns the user id the JWT middleware stored, or
// empty when the request was not authenticated.
func AuthenticatedUserID(c echo.Context) string {
	if userID, ok := c.Get(userIDContextKey).(string); ok {
		return userID
	}

	return ""
}
