// Package router defines how HTTP routes are registered for the API.
package router

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/vehicle-repair-shop/internal/config"
    "github.com/iliyamo/vehicle-repair-shop/internal/handler"
    "github.com/iliyamo/vehicle-repair-shop/internal/middleware"
)

// New builds the Echo instance with every route and middleware wired.
// Unauthenticated endpoints are register, login and the health check; the
// rest of /api sits behind the JWT middleware.  The Redis client may be nil,
// which turns the response cache and rate limiter into pass-throughs.
func New(cfg config.Config, auth *handler.AuthHandler, repairs *handler.RepairHandler, details *handler.DetailHandler, rdb *redis.Client) *echo.Echo {
    e := echo.New()
    e.HideBanner = true

    // Request logging and the last-resort 500: Recover keeps panics from
    // reaching the client with internal detail.
    e.Use(echomw.Logger())
    e.Use(echomw.Recover())

    // CORS is only needed for the dev frontend served from another port.
    if cfg.Env != "prod" {
        e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
            AllowOrigins: []string{"http://localhost:8000"},
        }))
    }

    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

    e.GET("/healthz", handler.Health)

    api := e.Group("/api", limiter)
    api.POST("/register", auth.Register)
    api.POST("/login", auth.Login)

    protected := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
    protected.GET("/me", auth.Me)

    protected.GET("/repairs", repairs.ListRepairs, cache)
    protected.GET("/repairs/:id", repairs.GetRepair, cache)
    protected.POST("/repairs", repairs.CreateRepair)
    protected.PUT("/repairs/:id", repairs.UpdateRepair)
    protected.DELETE("/repairs/:id", repairs.DeleteRepair)

    protected.GET("/details", details.ListDetails, cache)
    protected.GET("/details/:id", details.GetDetail, cache)
    protected.POST("/details", details.CreateDetail)
    protected.PUT("/details/:id", details.UpdateDetail)
    protected.DELETE("/details/:id", details.DeleteDetail)

    // Uploaded images are public once stored.
    e.Static("/uploads", cfg.UploadDir)

    // SPA assets with an index.html fallback for client-side routes.  API
    // and upload paths must never fall through to the frontend.
    e.Use(echomw.StaticWithConfig(echomw.StaticConfig{
        Root:  cfg.PublicDir,
        HTML5: true,
        Skipper: func(c echo.Context) bool {
            p := c.Request().URL.Path
            return strings.HasPrefix(p, "/api") || strings.HasPrefix(p, "/uploads") || p == "/healthz"
        },
    }))

    // Echo answers 405 for known paths with the wrong method; the SPA
    // fallback above handles the rest, so anything left over is a plain 404.
    e.RouteNotFound("/api/*", func(c echo.Context) error {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    })

    return e
}
