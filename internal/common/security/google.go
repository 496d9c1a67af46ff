package security

import (
	"context"
	"fmt"
	"strings"
	"time"

	"p2v/internal/common"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// IdentityClaims are the fields taken from a verified Google ID token.
type IdentityClaims struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
	Picture    string
	Issuer     string
	Audience   string
	Expires    time.Time
}

// IDTokenValidator is satisfied by *idtoken.Validator.
type IDTokenValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

type GoogleVerifier struct {
	validator IDTokenValidator
	audience  string
}

// NewGoogleVerifier builds a verifier that fetches Google's signing certs.
func NewGoogleVerifier(ctx context.Context, audience string, opts ...option.ClientOption) (*GoogleVerifier, error) {
	if strings.TrimSpace(audience) == "" {
		return nil, fmt.Errorf("google client id is required")
	}
	v, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create id token validator: %w", err)
	}
	return NewGoogleVerifierWithValidator(v, audience), nil
}

func NewGoogleVerifierWithValidator(v IDTokenValidator, audience string) *GoogleVerifier {
	return &GoogleVerifier{validator: v, audience: audience}
}

// Verify checks signature, audience, expiry and issuer. Any failure is
// reported as common.ErrInvalidIdentityToken without saying which check.
func (g *GoogleVerifier) Verify(ctx context.Context, assertion string) (*IdentityClaims, error) {
	if strings.TrimSpace(assertion) == "" {
		return nil, common.ErrInvalidIdentityToken
	}
	payload, err := g.validator.Validate(ctx, assertion, g.audience)
	if err != nil || payload == nil {
		return nil, common.ErrInvalidIdentityToken
	}
	if payload.Audience != g.audience || !containsString(googleIssuers, payload.Issuer) {
		return nil, common.ErrInvalidIdentityToken
	}

	claims := &IdentityClaims{
		Subject:    payload.Subject,
		Email:      stringClaim(payload.Claims, "email"),
		GivenName:  stringClaim(payload.Claims, "given_name"),
		FamilyName: stringClaim(payload.Claims, "family_name"),
		Picture:    stringClaim(payload.Claims, "picture"),
		Issuer:     payload.Issuer,
		Audience:   payload.Audience,
		Expires:    time.Unix(payload.Expires, 0).UTC(),
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, common.ErrInvalidIdentityToken
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, common.ErrInvalidIdentityToken
	}
	return claims, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
