package utils

import (
	"bookit/pkg/apperrors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's input limit; longer secrets are rejected, not truncated.
const MaxPasswordBytes = 72

// HashCost is lowered in tests.
var HashCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	if len(pw) == 0 {
		return "", apperrors.NewValidation("password is required")
	}
	if len(pw) > MaxPasswordBytes {
		return "", apperrors.NewValidation("password must be at most 72 bytes")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), HashCost)
	if err != nil {
		return "", apperrors.NewInternal("hash password", err)
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches hashed. Malformed hashes never match.
func CheckPassword(pw, hashed string) bool {
	if len(pw) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
