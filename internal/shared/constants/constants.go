package constants

const (
	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableAnnouncements           = "announcements"
	TableAnnouncementTargetRoles = "announcement_target_roles"
	TableAnnouncementRecipients  = "announcement_recipients"

	// Casbin policy objects
	ResourceAnnouncements = "announcements"
	ActionRead            = "read"
	ActionWrite           = "write"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
)
