package service

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Tokens for synthesized tenants (stub runs) are HS256 JWTs carrying the
// org name. Real runs use the opaque tokens from the credentials file
// verbatim and never touch this. The secret is embedded because the stub
// is a test double, not a service.
const tokenSecret = "iSzub0B3nchT0k3nS3cr3tWkZVBAb3DnUzvTPkDyD6WX"

const tokenLifetime = 24 * time.Hour

// GenerateToken mints a bearer token for org.
func GenerateToken(org string, issuedAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"org": org,
		"iat": issuedAt.Add(-1 * time.Second).Unix(), // guard against "token used before issued"
		"exp": issuedAt.Add(tokenLifetime).Unix(),
	})
	return token.SignedString([]byte(tokenSecret))
}

// VerifyToken returns the org claim of a token minted by GenerateToken.
func VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(tokenSecret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	org, ok := claims["org"].(string)
	if !ok || org == "" {
		return "", fmt.Errorf("org claim missing")
	}
	return org, nil
}
