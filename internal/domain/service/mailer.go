package service

import "context"

// Mailer dispatches account-lifecycle emails. Delivery is best-effort and
// fire-and-forget: the lifecycle controller never fails a signup because a
// message could not be sent.
type Mailer interface {
	// SendConfirmation delivers the email-confirmation message carrying the
	// signed confirmation token to the address.
	SendConfirmation(ctx context.Context, email, username, token string) error
}
