package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/vehicle-repair-shop/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject into the request context.  The provided
// secret must match the one used when issuing tokens.  Protected handlers
// read the authenticated user via `c.Get("user_id")`.
//
// A missing or non-Bearer Authorization header yields 401; a token that
// fails verification (bad signature, malformed, expired) yields 403.  In
// both cases the downstream handler is never invoked.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token required"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            uid, err := utils.VerifyAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid token"})
            }

            c.Set("user_id", uid)
            return next(c)
        }
    }
}
