package middleware

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tradedesk/internal/domain"
)

// ProviderClaims is the authenticated-principal shape the external
// identity provider puts in its tokens.
type ProviderClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// PrincipalVerifier validates provider-issued Bearer tokens
type PrincipalVerifier struct {
	secret []byte
}

// NewPrincipalVerifier creates a verifier, or nil when no secret is
// configured (disables the provider path).
func NewPrincipalVerifier(secret string) *PrincipalVerifier {
	if secret == "" {
		return nil
	}
	return &PrincipalVerifier{secret: []byte(secret)}
}

// Verify parses a provider token and maps it to (userId, role)
func (v *PrincipalVerifier) Verify(tokenString string) (uuid.UUID, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ProviderClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return uuid.Nil, "", err
	}

	claims, ok := token.Claims.(*ProviderClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid subject: %w", err)
	}

	// Unknown provider roles degrade to plain user
	role := domain.RoleUser
	for _, r := range claims.Roles {
		if domain.ValidRole(r) {
			role = r
			break
		}
	}

	return userID, role, nil
}
