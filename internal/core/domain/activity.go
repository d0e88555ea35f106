package domain

import "time"

// ActivityType classifies an audit-trail entry.
type ActivityType string

const (
	ActivityLogin        ActivityType = "LOGIN"
	ActivityLoginFailed  ActivityType = "LOGIN_FAILED"
	ActivityLogout       ActivityType = "LOGOUT"
	ActivityReceive      ActivityType = "RECEIVE"
	ActivityForward      ActivityType = "FORWARD"
	ActivityPark         ActivityType = "PARK"
	ActivityUnpark       ActivityType = "UNPARK"
	ActivityStatusChange ActivityType = "STATUS_CHANGE"
	ActivityReply        ActivityType = "REPLY"
	ActivityPayment      ActivityType = "PAYMENT"
	ActivityDelete       ActivityType = "DELETE"
	ActivityAmend        ActivityType = "AMEND"
	ActivityReconcile    ActivityType = "RECONCILE"
	ActivityUserChange   ActivityType = "USER_CHANGE"
)

// ActivityLog is one audit-trail row. Recording is best-effort: failures are
// logged and swallowed so they can never fail the operation being recorded.
// UserID is nil for pre-authentication events such as failed logins.
type ActivityLog struct {
	LogID       int64        `json:"logID"` // BIGSERIAL
	UserID      *string      `json:"userID"`
	Type        ActivityType `json:"type"`
	EntityType  string       `json:"entityType,omitempty"` // e.g. "notesheet", "user"
	EntityID    string       `json:"entityID,omitempty"`
	Description string       `json:"description"`
	IPAddress   string       `json:"ipAddress,omitempty"`
	SessionID   string       `json:"sessionID,omitempty"` // jti of the access token
	CreatedAt   time.Time    `json:"createdAt"`
}
