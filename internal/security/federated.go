package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Firebase ID tokens are OIDC ID tokens issued per project by Google's
// secure token service.
const firebaseIssuerBase = "https://securetoken.google.com/"

var ErrFederatedVerification = errors.New("federated token verification failed")

// FederatedIdentity is the verified subject of a third-party identity token.
type FederatedIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// FederatedVerifier validates Firebase ID tokens against the project's
// published signing certificates, discovered via OIDC.
type FederatedVerifier struct {
	verifier *oidc.IDTokenVerifier
	timeout  time.Duration
}

func NewFederatedVerifier(ctx context.Context, projectID string, timeout time.Duration) (*FederatedVerifier, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firebase project id required")
	}

	provider, err := oidc.NewProvider(ctx, firebaseIssuerBase+projectID)
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}

	return &FederatedVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: projectID}),
		timeout:  timeout,
	}, nil
}

func (v *FederatedVerifier) Verify(ctx context.Context, rawToken string) (FederatedIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return FederatedIdentity{}, fmt.Errorf("%w: %v", ErrFederatedVerification, err)
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return FederatedIdentity{}, fmt.Errorf("%w: %v", ErrFederatedVerification, err)
	}

	return FederatedIdentity{
		Subject: idToken.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
