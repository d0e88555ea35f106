package domain

import "time"

// RoleName is a grantable capability role. Roles drive the forwarding policy;
// they are deliberately coarse (the original deployment has exactly these two
// plus the superuser flag).
type RoleName string

const (
	RoleSectionHead    RoleName = "section_head"
	RoleReceiveSection RoleName = "receive_section"
)

// Role is a reference row describing a grantable role.
type Role struct {
	RoleID      string   `json:"roleID"` // Primary Key (UUID)
	Name        RoleName `json:"name"`
	Description string   `json:"description,omitempty"`
}

// User represents a member of the office in the domain.
type User struct {
	UserID       string     `json:"userID"` // Primary Key (UUID)
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Designation  string     `json:"designation,omitempty"`
	SectionID    *string    `json:"sectionID"` // FK -> sections.section_id
	SubSectionID *string    `json:"subSectionID"`
	IsActive     bool       `json:"isActive"`
	IsSuperuser  bool       `json:"isSuperuser"`
	Roles        []RoleName `json:"roles,omitempty"` // Granted capability roles
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete

	// Refresh token state; never serialized
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// GoogleUserInfo mirrors the subset of Google's userinfo payload the sign-in
// flow consumes.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
