package models

import "time"

// ActivityLog mirrors one audit-trail row. user_id is NULL for
// pre-authentication events such as failed logins.
type ActivityLog struct {
	LogID       int64     `db:"log_id"`
	UserID      *string   `db:"user_id"`
	Type        string    `db:"activity_type"`
	EntityType  string    `db:"entity_type"`
	EntityID    string    `db:"entity_id"`
	Description string    `db:"description"`
	IPAddress   string    `db:"ip_address"`
	SessionID   string    `db:"session_id"`
	CreatedAt   time.Time `db:"created_at"`
}
