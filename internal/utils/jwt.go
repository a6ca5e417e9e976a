package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"  // sentinel failure kinds for token verification
    "strconv" // parsing of string-encoded subject claims
    "time"    // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are encoded in the Authorization
// header when calling protected endpoints; there is no refresh mechanism,
// expiry forces a new login.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Verification failures are logically distinct so tests and logs can tell
// them apart, even though the HTTP boundary collapses all of them into an
// unauthorized response.
var (
    ErrTokenMalformed = errors.New("token malformed")
    ErrTokenSignature = errors.New("token signature invalid")
    ErrTokenExpired   = errors.New("token expired")
    ErrTokenInvalid   = errors.New("token invalid")
)

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID and a TTL in minutes, and returns the signed
// token together with its expiration time.  Claims are the subject (sub),
// expiration (exp) and issued at (iat).
func NewAccessToken(secret string, userID uint64, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub": userID,
        "exp": exp.Unix(),
        "iat": now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken parses and validates a raw bearer token and returns the
// subject user ID.  Tokens signed with anything other than HMAC are
// rejected.  The returned error is one of the sentinel values above.
func VerifyAccessToken(secret, raw string) (uint64, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenSignature
        }
        return []byte(secret), nil
    })
    if err != nil {
        switch {
        case errors.Is(err, jwt.ErrTokenMalformed):
            return 0, ErrTokenMalformed
        case errors.Is(err, jwt.ErrTokenExpired):
            return 0, ErrTokenExpired
        case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignature):
            return 0, ErrTokenSignature
        default:
            return 0, ErrTokenInvalid
        }
    }
    if !tok.Valid {
        return 0, ErrTokenInvalid
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, ErrTokenInvalid
    }
    // JWT numbers decode as float64; some issuers encode the subject as a string.
    switch sub := claims["sub"].(type) {
    case float64:
        return uint64(sub), nil
    case string:
        if n, err := strconv.ParseUint(sub, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, ErrTokenInvalid
}
