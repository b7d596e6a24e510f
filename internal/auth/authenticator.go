// Package auth implements password authentication and JWT sessions.
package auth

import (
	"context"

	"github.com/loveeee/ledger/internal/models"
)

// Authenticator verifies user credentials.
// Implementations may use passwords, OAuth tokens or passkeys; the service layer only sees users.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential, avatarURL string) (*models.User, error)

	// Authenticate returns the user whose credential matches, or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
