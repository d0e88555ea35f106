package dto

// CreateSectionRequest creates an organizational section.
type CreateSectionRequest struct {
	Name          string `json:"name" binding:"required"`
	IsReceiveDesk bool   `json:"isReceiveDesk"`
}

// UpdateSectionRequest updates a section's details.
type UpdateSectionRequest struct {
	Name          *string `json:"name"`
	IsReceiveDesk *bool   `json:"isReceiveDesk"`
}

// CreateSubSectionRequest creates a sub-section under a section.
type CreateSubSectionRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateSubSectionRequest updates a sub-section's name.
type UpdateSubSectionRequest struct {
	Name string `json:"name" binding:"required"`
}
