package user

import (
	"fmt"

	"github.com/VitaminP8/qupp/internal/apperr"
	"github.com/VitaminP8/qupp/models"
)

// PasswordVerifier checks a plain password against a stored hash.
// A mismatch is (false, nil); an error means the check itself failed.
type PasswordVerifier interface {
	Verify(hash, plain string) (bool, error)
}

// CredentialGate authenticates users by email and password. It does not issue tokens.
type CredentialGate struct {
	store    UserStorage
	verifier PasswordVerifier
}

// NewCredentialGate creates a CredentialGate over store.
func NewCredentialGate(store UserStorage, verifier PasswordVerifier) *CredentialGate {
	return &CredentialGate{store: store, verifier: verifier}
}

// Authenticate returns the user with email if password matches. An unknown email is
// apperr.ErrNotFound and a wrong password is apperr.ErrUnauthorized.
func (g *CredentialGate) Authenticate(email, password string) (*models.User, error) {
	u, err := g.store.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}
	if u == nil {
		return nil, apperr.NotFound("no account with email %s", email)
	}

	ok, err := g.verifier.Verify(u.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, apperr.Unauthorized("invalid password")
	}

	return u, nil
}
