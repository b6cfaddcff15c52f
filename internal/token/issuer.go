package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-movie-api/internal/model"
)

// Claims is the signed claim set shared by bearer and refresh tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer creates and verifies HS256-signed tokens. Bearer and refresh tokens
// differ only in the lifetime the caller requests.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue signs a token embedding the email with iat of now and exp of
// now+expiresIn. Identical inputs under the same secret and clock produce the
// same token.
func (i *Issuer) Issue(email string, expiresIn time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify decodes a token and returns the embedded email. Expiry is reported
// as model.ErrTokenExpired; every other failure (bad signature, wrong
// algorithm, garbage input, missing email) is model.ErrTokenMalformed.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrTokenMalformed
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", model.ErrTokenExpired
		}
		return "", model.ErrTokenMalformed
	}

	if !parsed.Valid || claims.Email == "" {
		return "", model.ErrTokenMalformed
	}

	return claims.Email, nil
}
