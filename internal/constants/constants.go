package constants

// Context and session keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	SessionCookieName = "task_session"
	RequestIDHeader   = "X-Request-ID"
)

// Validation limits
const (
	MinPasswordLength   = 8
	MaxAIGeneratedTasks = 20
)

// Pagination defaults
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Dashboard
const (
	RecentTasksLimit = 10
)
