// Package avatar resolves default avatar URLs through the Gravatar service.
package avatar

import (
	"crypto/md5" //nolint:gosec // Gravatar's URL scheme requires MD5; not used for security.
	"encoding/hex"
	"fmt"

	"rolodex/internal/domain/entity"
	"rolodex/internal/domain/service"
)

const gravatarURLFormat = "https://www.gravatar.com/avatar/%s?d=identicon"

type gravatarProvider struct{}

// NewGravatarProvider returns the Gravatar-backed AvatarProvider.
func NewGravatarProvider() service.AvatarProvider {
	return gravatarProvider{}
}

// ImageURLFor derives the Gravatar URL for the email. Gravatar identifies
// accounts by the MD5 of the trimmed, lower-cased address.
func (gravatarProvider) ImageURLFor(email string) string {
	sum := md5.Sum([]byte(entity.NormalizeEmail(email))) //nolint:gosec

	return fmt.Sprintf(gravatarURLFormat, hex.EncodeToString(sum[:]))
}
