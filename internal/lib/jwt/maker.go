package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken mints an HS256 token with subject=email, the role claim,
// issued-at=now and expiry=now+TTL.
func (m *MakerImpl) GenerateToken(email, role string) (string, error) {
	const op = "jwt.GenerateToken"
	now := m.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ParseToken verifies the signature and expiry of tokenStr and returns its
// claims. Expiry is checked against the maker's clock.
func (m *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(m.secretKey), nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}

// Validate fails closed: it returns false for any malformed, tampered or
// expired token, and for a valid token issued to a different subject.
func (m *MakerImpl) Validate(tokenStr, expectedEmail string) bool {
	claims, err := m.ParseToken(tokenStr)
	if err != nil {
		return false
	}
	return claims.Subject == expectedEmail
}

// ExtractSubject returns the subject email of tokenStr, failing if the token
// cannot be parsed.
func (m *MakerImpl) ExtractSubject(tokenStr string) (string, error) {
	const op = "jwt.ExtractSubject"
	claims, err := m.ParseToken(tokenStr)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return claims.Subject, nil
}
