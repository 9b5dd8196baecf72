package localauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"profilesync/internal/common"
)

// claims carries the registered claims plus the user's email.
type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// generateAccessToken mints an HS256 JWT for userID valid until expiresAt.
func generateAccessToken(userID, email string, secret []byte, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	})
	return token.SignedString(secret)
}

// ParseAccessToken validates an access token and returns the user id and
// email it carries. Expired tokens yield common.ErrTokenExpired.
func ParseAccessToken(tokenString string, secret []byte, now time.Time) (userID, email string, err error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
			return "", "", common.ErrTokenExpired
		}
		return "", "", err
	}
	if !token.Valid {
		return "", "", common.ErrTokenExpired
	}
	return c.Subject, c.Email, nil
}
