// Package jwt issues and validates the signed bearer tokens the portal uses
// for authentication. Tokens are HS256-signed, carry the account email as
// subject and the account role as a custom claim, and expire after the
// configured TTL. There is no server-side revocation; expiry is the only
// invalidation mechanism, and clock skew is not compensated.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload baked into every portal token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Maker is the token-service contract consumed by the auth service and the
// request middleware.
type Maker interface {
	// GenerateToken mints a signed token for the given subject email and role.
	GenerateToken(email, role string) (string, error)
	// ParseToken verifies signature and expiry and returns the claims.
	ParseToken(tokenStr string) (*Claims, error)
	// Validate reports whether the token is well-formed, correctly signed,
	// unexpired and issued for expectedEmail. It fails closed: any problem
	// yields false, never an error.
	Validate(tokenStr, expectedEmail string) bool
	// ExtractSubject returns the subject email of a parseable token.
	ExtractSubject(tokenStr string) (string, error)
}

// MakerImpl implements Maker with a symmetric secret and a fixed TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewMaker builds a MakerImpl over the given secret and TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// NewMakerWithClock is NewMaker with an injected clock, used by tests to
// exercise expiry without sleeping.
func NewMakerWithClock(secretKey string, ttl time.Duration, now func() time.Time) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       now,
	}
}
