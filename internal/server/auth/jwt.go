// Package auth holds the authentication and authorization core: password
// hashing, session tokens, the request guard and the ownership policy.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/sailblog/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	Nickname string `json:"nickname,omitempty"`
}

// TokenCodec issues and verifies HS256 session tokens. It is stateless: a
// token stays valid for anyone holding the same secret until it expires.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec copies secret so later changes to the caller's slice do not
// affect issued or verified tokens.
func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	s := make([]byte, len(secret))
	copy(s, secret)
	return &TokenCodec{secret: s, ttl: ttl}
}

// TTL is the lifetime of tokens issued by the codec.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue mints a token for userID with iat = now and exp = now + TTL. JWT
// dates are whole seconds, so exp is rounded up: the token never expires
// before now + TTL.
func (c *TokenCodec) Issue(userID, nickname string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(c.ttl))),
		},
		Nickname: nickname,
	})

	return token.SignedString(c.secret)
}

// Verify checks signature and algorithm, then the time claims against now,
// and returns the claims. A token is expired only when now is after exp.
// Failures are common.ErrTokenMalformed, common.ErrTokenBadSignature or
// common.ErrTokenExpired, all of which wrap common.ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenUnverifiable) {
			return nil, common.ErrTokenBadSignature
		}
		return nil, common.ErrTokenMalformed
	}

	if !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, common.ErrTokenMalformed
	}
	if claims.IssuedAt != nil && now.Before(claims.IssuedAt.Time) {
		return nil, common.ErrTokenMalformed
	}
	if now.After(claims.ExpiresAt.Time) {
		return nil, common.ErrTokenExpired
	}

	return claims, nil
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}
