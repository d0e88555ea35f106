package repositories

import (
	"context"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// ActivityFilter narrows an activity-log listing. Zero values mean "no filter".
type ActivityFilter struct {
	UserID     *string
	Type       *domain.ActivityType
	EntityType string
	EntityID   string
}

// ActivityWriter records audit-trail rows
type ActivityWriter interface {
	// SaveActivity appends one audit-trail row.
	SaveActivity(ctx context.Context, entry domain.ActivityLog) error
}

// ActivityReader lists audit-trail rows
type ActivityReader interface {
	// ListActivities retrieves audit rows newest first, offset-paginated.
	ListActivities(ctx context.Context, filter ActivityFilter, limit int, offset int) ([]domain.ActivityLog, error)
}

// ActivityRepositoryFacade combines audit-trail repository interfaces
type ActivityRepositoryFacade interface {
	ActivityWriter
	ActivityReader
}
