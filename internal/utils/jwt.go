package utils // package utils provides helpers for minting and reading access tokens

import (
    "errors"  // sentinel errors for claim validation
    "fmt"     // wrapping parse errors
    "strconv" // parsing string subjects
    "time"    // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// ErrInvalidToken is returned by ParseAccessToken for any token that is
// malformed, expired, signed with another key or missing claims.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are sent in the Authorization
// header when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a principal.  The JWT
// includes the subject (sub), role, expiration (exp) and issued at (iat)
// claims.  Session issuance belongs to the identity service; this helper
// exists for cmd/token and tests.
func NewAccessToken(secret string, p model.Principal, ttl time.Duration) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "sub":  strconv.FormatUint(p.UserID, 10),
        "role": string(p.Role),
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies an HS256 token and returns the principal it
// carries.  The sub claim may be a string or a number; the role claim
// must name a known role.
func ParseAccessToken(secret, raw string) (model.Principal, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return model.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return model.Principal{}, ErrInvalidToken
    }
    var uid uint64
    switch v := claims["sub"].(type) {
    case string:
        uid, err = strconv.ParseUint(v, 10, 64)
        if err != nil {
            return model.Principal{}, fmt.Errorf("%w: bad sub", ErrInvalidToken)
        }
    case float64:
        if v < 1 || v != float64(uint64(v)) {
            return model.Principal{}, fmt.Errorf("%w: bad sub", ErrInvalidToken)
        }
        uid = uint64(v)
    default:
        return model.Principal{}, fmt.Errorf("%w: missing sub", ErrInvalidToken)
    }
    if uid == 0 {
        return model.Principal{}, fmt.Errorf("%w: bad sub", ErrInvalidToken)
    }
    roleClaim, _ := claims["role"].(string)
    role, ok := model.ParseRole(roleClaim)
    if !ok {
        return model.Principal{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, roleClaim)
    }
    return model.Principal{UserID: uid, Role: role}, nil
}
