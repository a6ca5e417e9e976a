package handler // handler defines http handlers

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"
)

// Pagination bounds.  Page and limit fall back to their defaults when the
// query parameters are absent or unparsable; limit is capped so one request
// cannot drag the whole table across the wire.
const (
    defaultPage  = 1
    defaultLimit = 10
    maxLimit     = 100
)

// getUserID extracts the user_id the JWT middleware stored in context.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pageParams reads ?page= and ?limit= and returns the clamped limit plus the
// offset of the first row: offset = (page-1)*limit.
func pageParams(c echo.Context) (limit, offset int) {
    page := defaultPage
    if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
        page = n
    }
    limit = defaultLimit
    if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n > 0 {
        limit = n
    }
    if limit > maxLimit {
        limit = maxLimit
    }
    return limit, (page - 1) * limit
}

// pathID parses the numeric :id route parameter.
func pathID(c echo.Context) (uint64, error) {
    return strconv.ParseUint(c.Param("id"), 10, 64)
}

// formInt parses an integer form value; empty means zero.
func formInt(c echo.Context, name string) (int, error) {
    v := c.FormValue(name)
    if v == "" {
        return 0, nil
    }
    return strconv.Atoi(v)
}

// formFloat parses a float form value; empty means zero.
func formFloat(c echo.Context, name string) (float64, error) {
    v := c.FormValue(name)
    if v == "" {
        return 0, nil
    }
    return strconv.ParseFloat(v, 64)
}
