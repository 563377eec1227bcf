package utils // package utils provides token and validation helpers shared by handlers and middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// ErrInvalidToken is returned when a bearer token cannot be verified or
// lacks the subject and role claims.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// Tokens are issued by the booking API; this server only verifies them,
// but tests and local tooling mint their own with NewAccessToken.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the identity carried by a verified access token.
type Claims struct {
	UserID string // "sub" claim, numeric or string
	Role   string // "role" claim
}

// NewAccessToken builds and signs an HS256 JWT with the subject and role
// claims set. The token expires after ttl.
func NewAccessToken(secret, userID, role string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret and extracts the claims. Only
// HMAC signing methods are accepted.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	var c Claims
	// The API has issued both numeric and string subjects over time.
	switch sub := mc["sub"].(type) {
	case string:
		c.UserID = sub
	case float64:
		c.UserID = fmt.Sprintf("%.0f", sub)
	}
	c.Role, _ = mc["role"].(string)
	if c.UserID == "" || c.Role == "" {
		return Claims{}, ErrInvalidToken
	}
	return c, nil
}
