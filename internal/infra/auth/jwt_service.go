// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"passport/config"
	"passport/internal/domain/service"
)

// accessTokenTTL is the fixed lifetime of an issued token. Validity is
// determined purely by signature and expiry; there is no revocation list.
const accessTokenTTL = time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret string        // Secret key for signing tokens.
	ttl    time.Duration // Time-to-live for issued tokens.
}

// NewJWTService is the constructor for jwtService.
// The signing secret is mandatory configuration: a missing secret is a
// startup error, never a silent fallback.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret: cfg.SecretKey.Access,
		ttl:    accessTokenTTL,
	}, nil
}

// Issue creates a signed token carrying the user ID as its subject,
// expiring one hour after issuance.
func (s *jwtService) Issue(userID int64) (string, error) {
	return s.issueWithTTL(userID, s.ttl)
}

// issueWithTTL builds and signs a token with an explicit lifetime.
func (s *jwtService) issueWithTTL(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify checks a token's signature and expiry and returns the subject user ID.
// Failures map onto the service sentinel errors so callers can tell expiry
// from tampering.
func (s *jwtService) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return 0, translateJWTError(err)
	}
	if !token.Valid {
		return 0, service.ErrTokenSignatureInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Wrap(service.ErrTokenMalformed, "subject is not a user ID")
	}

	return userID, nil
}

// translateJWTError maps golang-jwt parse errors onto the domain sentinels.
func translateJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.Wrap(service.ErrTokenExpired, err.Error())
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return errors.Wrap(service.ErrTokenSignatureInvalid, err.Error())
	default:
		return errors.Wrap(service.ErrTokenMalformed, err.Error())
	}
}
