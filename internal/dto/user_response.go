package dto

import (
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// UserResponse is the public shape of a user.
type UserResponse struct {
	UserID       string   `json:"userID"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	Email        string   `json:"email,omitempty"`
	Designation  string   `json:"designation,omitempty"`
	SectionID    *string  `json:"sectionID"`
	SubSectionID *string  `json:"subSectionID"`
	IsActive     bool     `json:"isActive"`
	IsSuperuser  bool     `json:"isSuperuser"`
	Roles        []string `json:"roles"`
}

// ToUserResponse converts a domain.User to UserResponse.
func ToUserResponse(user *domain.User) UserResponse {
	roles := make([]string, len(user.Roles))
	for i, r := range user.Roles {
		roles[i] = string(r)
	}
	return UserResponse{
		UserID:       user.UserID,
		Username:     user.Username,
		Name:         user.Name,
		Email:        user.Email,
		Designation:  user.Designation,
		SectionID:    user.SectionID,
		SubSectionID: user.SubSectionID,
		IsActive:     user.IsActive,
		IsSuperuser:  user.IsSuperuser,
		Roles:        roles,
	}
}
