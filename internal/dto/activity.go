package dto

import (
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// ListActivitiesParams defines query parameters for the activity-log listing.
type ListActivitiesParams struct {
	UserID     string `form:"userID"`
	Type       string `form:"type"`
	EntityType string `form:"entityType"`
	EntityID   string `form:"entityID"`
	Limit      int    `form:"limit,default=50"`
	Offset     int    `form:"offset,default=0"`
}

// ListActivitiesResponse wraps a page of audit rows.
type ListActivitiesResponse struct {
	Activities []domain.ActivityLog `json:"activities"`
}
