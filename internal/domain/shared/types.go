package shared

// OutboxStatus defines notification outbox publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)

// Role is the application role carried by an identity and stored on a profile
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)
