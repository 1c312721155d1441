package constants

// Session / context keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "teamforge_session"
)

// Auth
const (
	MinPasswordLength = 8
)

// Invitations
const (
	// DefaultInvitationExpiryHours is applied to new organizations; each
	// organization can override it in its settings.
	DefaultInvitationExpiryHours = 48
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
