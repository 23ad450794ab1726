package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"proofmeet-backend/internal/config"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier checks a login password. The check is deliberately
// global (no per-user passwords yet): identity is established by court
// verification, the password is a shared gate.
type CredentialVerifier interface {
	Verify(password string) error
}

type bcryptVerifier struct {
	hash []byte
}

func (v bcryptVerifier) Verify(password string) error {
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

type literalVerifier struct {
	want string
}

func (v literalVerifier) Verify(password string) error {
	if subtle.ConstantTimeCompare([]byte(v.want), []byte(password)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

type permissiveVerifier struct{}

func (permissiveVerifier) Verify(string) error { return nil }

// NewVerifier picks the strongest configured credential check: bcrypt hash,
// then plain literal, then accept-anything when neither is set.
func NewVerifier(cfg config.App) CredentialVerifier {
	if cfg.LoginPasswordBcrypt != "" {
		return bcryptVerifier{hash: []byte(cfg.LoginPasswordBcrypt)}
	}
	if cfg.LoginPassword != "" {
		return literalVerifier{want: cfg.LoginPassword}
	}
	return permissiveVerifier{}
}
