package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose tags a token's intent so a token minted for one action cannot be
// replayed for another. Verify checks the purpose explicitly.
type Purpose string

const (
	PurposeEmailVerification Purpose = "email-verification"
	PurposePasswordReset     Purpose = "password-reset"
	PurposeLogin             Purpose = "login"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by every signed token.
type Claims struct {
	UserID  string  `json:"user_id"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies purpose-scoped tokens with a shared HMAC secret.
// The secret is fixed at construction; swapping it means constructing a new
// Issuer.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// Issue mints a signed token for the given subject and purpose.
func (i *Issuer) Issue(userID string, purpose Purpose, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks the signature and expiry of a token and requires its purpose
// to match want. It returns ErrTokenExpired for tokens past their TTL and
// ErrInvalidToken for everything else that is wrong with the token.
func (i *Issuer) Verify(tokenStr string, want Purpose) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != want {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
