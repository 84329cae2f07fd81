package utils

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidSSOToken = errors.New("invalid SSO identity token")

// VerifySSOIdentityToken checks an RS256 identity token from the partner
// identity provider against its published JWKS and returns the asserted email
// and display name. The JWKS URL comes from SSO_JWKS_URL.
func VerifySSOIdentityToken(identityToken string) (email string, name string, err error) {
	jwksURL := os.Getenv("SSO_JWKS_URL")
	if jwksURL == "" {
		return "", "", errors.New("SSO_JWKS_URL environment variable is required")
	}

	res, err := http.Get(jwksURL)
	if err != nil {
		return "", "", fmt.Errorf("fetch JWKS: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", "", fmt.Errorf("read JWKS: %w", err)
	}

	// Keyfunc selects the key with the matching kid and returns its public key
	jwks, err := keyfunc.NewJSON(body)
	if err != nil {
		return "", "", fmt.Errorf("parse JWKS: %w", err)
	}

	token, err := jwt.Parse(identityToken, jwks.Keyfunc)
	if err != nil || !token.Valid {
		return "", "", ErrInvalidSSOToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidSSOToken
	}
	email = fmt.Sprint(claims["email"])
	if email == "" || email == "<nil>" {
		return "", "", ErrInvalidSSOToken
	}
	if n, ok := claims["name"]; ok {
		name = fmt.Sprint(n)
	}
	return email, name, nil
}
