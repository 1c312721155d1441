package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateInvitationToken returns an opaque single-use token for an
// invitation link.
func GenerateInvitationToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
