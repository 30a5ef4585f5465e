package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Codec.Verify for every kind of rejected
// token: bad signature, wrong algorithm, malformed payload or past expiry.
// Callers must not be able to tell the cases apart.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by a session token.  UserID and Email
// mirror the registered subject so handlers can render the session without
// a lookup; the directory re-fetch remains the source of truth.
type Claims struct {
	UserID uint64 `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed session tokens.  The secret is
// injected at construction so tests can run isolated codecs with distinct
// keys; a shared secret across instances is what lets horizontally scaled
// deployments validate each other's tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a Codec signing with secret and issuing tokens valid
// for ttl.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL reports the validity window of issued tokens.  The session cookie's
// Max-Age is derived from it so cookie and token expire together.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a token for the given user.  The expiry is absolute:
// issued-at plus the codec's TTL.
func (c *Codec) Issue(userID uint64, email string) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	return t.SignedString(c.secret)
}

// Verify parses and validates raw and returns the embedded claims.  Any
// failure — non-HMAC signing method, signature mismatch (including a token
// signed with a rotated secret), malformed payload, or expiry in the past —
// collapses into ErrInvalidToken.  The boundary is exclusive: a token is
// rejected once the current time reaches its exp instant.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
