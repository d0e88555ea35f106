package dto

import (
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// CreateUserRequest defines the data required to create a user (admin action).
type CreateUserRequest struct {
	Username     string   `json:"username" binding:"required,min=3"`
	Password     string   `json:"password" binding:"required,min=8"`
	Name         string   `json:"name" binding:"required"`
	Email        string   `json:"email" binding:"omitempty,email"`
	Designation  string   `json:"designation"`
	SectionID    *string  `json:"sectionID"`
	SubSectionID *string  `json:"subSectionID"`
	Roles        []string `json:"roles" binding:"omitempty,dive,oneof=section_head receive_section"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Pointers differentiate omitted fields from zero-value fields.
type UpdateUserRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Designation  *string `json:"designation"`
	SectionID    *string `json:"sectionID"`
	SubSectionID *string `json:"subSectionID"`
	Password     *string `json:"password" binding:"omitempty,min=8"`
}

// AssignRoleRequest grants or revokes a capability role.
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=section_head receive_section"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: userResponses}
}
