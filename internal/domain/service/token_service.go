package service

import (
	"errors"
)

// Token verification failure kinds. Verify returns exactly one of these
// (possibly wrapped) so the caller can tell tampering from natural expiry.
var (
	// ErrTokenMalformed means the token could not be parsed or decoded.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrTokenSignatureInvalid means the signature does not match the secret.
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")

	// ErrTokenExpired means the token's expiry timestamp has passed.
	ErrTokenExpired = errors.New("token has expired")
)

// TokenService defines the interface for issuing and verifying bearer tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Issue creates a signed, time-limited token bound to the given user ID.
	Issue(userID int64) (string, error)

	// Verify checks a token's signature and expiry and returns the user ID
	// it was issued for. On failure it returns one of the sentinel errors
	// above.
	Verify(token string) (int64, error)
}
