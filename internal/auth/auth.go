// Package auth verifies dashboard login credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMissingCredentials is returned when either field is empty
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrInvalidCredentials is returned when a verifier rejects the pair
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Credentials is what the login form submits
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Complete reports whether both fields are filled in
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.Email) != "" && c.Password != ""
}

// Verifier decides whether a complete credential pair may log in
type Verifier interface {
	Verify(ctx context.Context, creds Credentials) error
}

// AcceptAll admits any complete credential pair. It performs no
// verification and is not a security boundary.
type AcceptAll struct{}

func (AcceptAll) Verify(_ context.Context, creds Credentials) error {
	if !creds.Complete() {
		return ErrMissingCredentials
	}
	return nil
}

// Bcrypt admits a single administrator whose password hash is configured.
type Bcrypt struct {
	email string
	hash  []byte
}

// NewBcrypt returns a verifier for one account. The hash must be a bcrypt hash.
func NewBcrypt(email, hash string) (*Bcrypt, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}
	return &Bcrypt{email: strings.ToLower(strings.TrimSpace(email)), hash: []byte(hash)}, nil
}

func (b *Bcrypt) Verify(_ context.Context, creds Credentials) error {
	if !creds.Complete() {
		return ErrMissingCredentials
	}
	if strings.ToLower(strings.TrimSpace(creds.Email)) != b.email {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(b.hash, []byte(creds.Password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for NewBcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
