package config

// Redis backs the response cache on the list/get routes and the token-bucket
// rate limiter.  Both features are optional: when the client cannot be
// reached at startup this constructor returns nil and the middleware
// degrades to a pass-through.

import (
    "context"
    "crypto/tls"
    "os"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from REDIS_HOST, REDIS_PORT,
// REDIS_PASSWORD, REDIS_DB and REDIS_TLS.  The connection is verified with a
// short ping; nil is returned when the server is unreachable so callers can
// run without caching or rate limiting.
func NewRedisClient() *redis.Client {
    addr := getenv("REDIS_HOST", "localhost") + ":" + getenv("REDIS_PORT", "6379")

    var tlsConf *tls.Config
    if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
        tlsConf = &tls.Config{InsecureSkipVerify: true}
    }

    client := redis.NewClient(&redis.Options{
        Addr:      addr,
        Password:  os.Getenv("REDIS_PASSWORD"),
        DB:        atoi(getenv("REDIS_DB", "0")),
        TLSConfig: tlsConf,
    })

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        return nil
    }
    return client
}
