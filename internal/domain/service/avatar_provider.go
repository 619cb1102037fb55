package service

// AvatarProvider resolves a default avatar image URL for an email address.
// Image hosting itself is an external collaborator; the domain only stores URLs.
type AvatarProvider interface {
	// ImageURLFor derives a stable avatar URL for the email.
	ImageURLFor(email string) string
}
