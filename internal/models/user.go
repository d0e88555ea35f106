package models

import (
	"database/sql"
	"time"
)

// User represents a member of the office roster.
type User struct {
	UserID       string  `json:"userID"`
	Username     string  `json:"username" db:"username"`
	PasswordHash string  `json:"-" db:"password_hash"`
	Name         string  `json:"name"`
	Email        string  `json:"email" db:"email"`
	Designation  string  `json:"designation" db:"designation"`
	SectionID    *string `db:"section_id"`
	SubSectionID *string `db:"sub_section_id"`
	IsActive     bool    `db:"is_active"`
	IsSuperuser  bool    `db:"is_superuser"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`

	// Refresh token fields
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
