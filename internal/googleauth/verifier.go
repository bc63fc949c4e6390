// Package googleauth verifies Google Sign-In ID tokens.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/Skotchmaster/shopcart/internal/transport"
)

var ErrInvalidCredential = errors.New("invalid google credential")

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// Verifier checks signature, audience and expiry against Google's public
// keys, then reads the identity claims.
type Verifier struct {
	clientID string
	validate validateFunc
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID, validate: idtoken.Validate}
}

func (v *Verifier) Verify(ctx context.Context, credential string) (*transport.GoogleIdentity, error) {
	payload, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, errors.Join(ErrInvalidCredential, err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (*transport.GoogleIdentity, error) {
	if p.Issuer != "accounts.google.com" && p.Issuer != "https://accounts.google.com" {
		return nil, fmt.Errorf("unexpected issuer %q: %w", p.Issuer, ErrInvalidCredential)
	}
	if p.Subject == "" {
		return nil, fmt.Errorf("missing subject: %w", ErrInvalidCredential)
	}

	email, _ := p.Claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("missing email: %w", ErrInvalidCredential)
	}
	name, _ := p.Claims["name"].(string)

	return &transport.GoogleIdentity{
		Subject:       p.Subject,
		Email:         email,
		EmailVerified: claimTrue(p.Claims["email_verified"]),
		Name:          name,
	}, nil
}

// claimTrue accepts both the boolean and the legacy string form.
func claimTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	default:
		return false
	}
}
