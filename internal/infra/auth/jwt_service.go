// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"rolodex/config"
	domainerrors "rolodex/internal/domain/errors"
	"rolodex/internal/domain/service"
)

// tokenClaims is the wire claim set: the registered claims carry subject,
// issued-at and expiry; Class discriminates the token's purpose.
type tokenClaims struct {
	Class string `json:"class"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Each token class is signed with its own secret, so presenting a token of one
// class where another is expected fails at the signature level, not on a claim
// the caller could forge.
type jwtService struct {
	secrets map[service.TokenClass][]byte
	ttls    map[service.TokenClass]time.Duration
}

// NewJWTService is the constructor for jwtService.
// It fails on signing-key misconfiguration; that is fatal to startup, never a
// user-facing condition.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" || cfg.SecretKey.Confirm == "" {
		return nil, errors.New("jwt secrets must be provided for all token classes")
	}

	return &jwtService{
		secrets: map[service.TokenClass][]byte{
			service.TokenClassAccess:  []byte(cfg.SecretKey.Access),
			service.TokenClassRefresh: []byte(cfg.SecretKey.Refresh),
			service.TokenClassConfirm: []byte(cfg.SecretKey.Confirm),
		},
		ttls: map[service.TokenClass]time.Duration{
			service.TokenClassAccess:  cfg.Auth.AccessTokenTTL,
			service.TokenClassRefresh: cfg.Auth.RefreshTokenTTL,
			service.TokenClassConfirm: cfg.Auth.ConfirmTokenTTL,
		},
	}, nil
}

// IssueAccess signs a new short-lived access token for the subject.
func (s *jwtService) IssueAccess(subject string) (string, error) {
	return s.issue(subject, service.TokenClassAccess)
}

// IssueRefresh signs a new long-lived refresh token for the subject.
func (s *jwtService) IssueRefresh(subject string) (string, error) {
	return s.issue(subject, service.TokenClassRefresh)
}

// IssueConfirmation signs a new email-confirmation token for the subject.
func (s *jwtService) IssueConfirmation(subject string) (string, error) {
	return s.issue(subject, service.TokenClassConfirm)
}

// Verify checks the token string against the expected class and returns the
// subject. The error distinguishes expiry, wrong class and malformed input so
// the lifecycle controller can surface precise outcomes.
func (s *jwtService) Verify(tokenString string, expected service.TokenClass) (string, error) {
	secret, ok := s.secrets[expected]
	if !ok {
		return "", errors.Errorf("unknown token class: %s", expected)
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return secret, nil
	})

	switch {
	case err == nil && token.Valid:
		// The class claim must agree with the signing scope. A mismatch here
		// means a token was signed under one class but labeled as another.
		if claims.Class != expected.String() {
			return "", domainerrors.ErrTokenWrongClass
		}

		return claims.Subject, nil

	case errors.Is(err, jwt.ErrTokenExpired):
		return "", domainerrors.ErrTokenExpired

	case errors.Is(err, jwt.ErrSignatureInvalid):
		// The signature does not verify under the expected class. If it
		// verifies under another class, the caller presented the wrong kind of
		// token rather than a forged one.
		if s.verifiesUnderOtherClass(tokenString, expected) {
			return "", domainerrors.ErrTokenWrongClass
		}

		return "", domainerrors.ErrTokenMalformed

	default:
		return "", domainerrors.ErrTokenMalformed
	}
}

func (s *jwtService) issue(subject string, class service.TokenClass) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Class: class.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttls[class])),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secrets[class])
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign %s token", class)
	}

	return signed, nil
}

// verifiesUnderOtherClass probes the remaining class secrets. Expiry is ignored
// here: an expired token of another class is still a wrong-class token.
func (s *jwtService) verifiesUnderOtherClass(tokenString string, expected service.TokenClass) bool {
	for class, secret := range s.secrets {
		if class == expected {
			continue
		}

		key := secret
		_, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}

			return key, nil
		}, jwt.WithoutClaimsValidation())
		if err == nil {
			return true
		}
	}

	return false
}
