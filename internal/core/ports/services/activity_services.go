package services

import (
	"context"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
)

// ActivityRecorderSvc records completed operations in the audit trail.
// Recording is best-effort: implementations log persistence failures and
// swallow them, so a lost audit row can never fail the recorded operation.
type ActivityRecorderSvc interface {
	Record(ctx context.Context, entry domain.ActivityLog)
}

// ActivitySvcFacade adds the admin-only listing to the recorder.
type ActivitySvcFacade interface {
	ActivityRecorderSvc

	// ListActivities retrieves audit rows, newest first (superuser action).
	ListActivities(ctx context.Context, params dto.ListActivitiesParams, requestingUserID string) ([]domain.ActivityLog, error)
}
