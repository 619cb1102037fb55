package service

// TokenClass discriminates the purpose of a signed token. Each class is signed
// with its own secret, so a token of one class can never verify in a context
// expecting another even if its claims were forged.
type TokenClass string

const (
	// TokenClassAccess is a short-lived token presented on every request.
	TokenClassAccess TokenClass = "access"
	// TokenClassRefresh is a long-lived token exchanged for new access tokens.
	TokenClassRefresh TokenClass = "refresh"
	// TokenClassConfirm is a single-purpose token carried in confirmation emails.
	TokenClassConfirm TokenClass = "confirm"
)

// String returns the string representation of the TokenClass.
func (c TokenClass) String() string {
	return string(c)
}

// TokenScheme is the authorization scheme reported alongside issued token pairs.
const TokenScheme = "bearer"

// TokenService defines the interface for issuing and verifying signed,
// time-limited tokens. Verification is purely cryptographic: it never consults
// the credential store, so a token is valid until its own expiry unless revoked
// through the stored-refresh-token comparison in the lifecycle controller.
type TokenService interface {
	// IssueAccess signs a new access token for the subject (the account's
	// numeric ID in decimal form).
	IssueAccess(subject string) (string, error)

	// IssueRefresh signs a new refresh token for the subject.
	IssueRefresh(subject string) (string, error)

	// IssueConfirmation signs a new email-confirmation token for the subject.
	IssueConfirmation(subject string) (string, error)

	// Verify checks the token against the expected class and returns the
	// subject. Failures surface as the domain errors ErrTokenExpired,
	// ErrTokenWrongClass or ErrTokenMalformed.
	Verify(token string, expected TokenClass) (string, error)
}
