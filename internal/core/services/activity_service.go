package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
	"github.com/paperdesk/doc_tracking_app/internal/middleware"
)

type activityService struct {
	activityRepo portsrepo.ActivityRepositoryFacade
	userRepo     portsrepo.UserRepositoryFacade
}

func NewActivityService(activityRepo portsrepo.ActivityRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.ActivitySvcFacade {
	return &activityService{activityRepo: activityRepo, userRepo: userRepo}
}

var _ portssvc.ActivitySvcFacade = (*activityService)(nil)

// Record appends one audit row, filling the request metadata (IP, session)
// from the context. Persistence failures are logged and swallowed: the audit
// trail must never fail the operation it records.
func (s *activityService) Record(ctx context.Context, entry domain.ActivityLog) {
	if entry.IPAddress == "" {
		entry.IPAddress = middleware.GetClientIPFromCtx(ctx)
	}
	// Login records pass the session explicitly: the jti is minted in the same
	// request and is not yet in the context.
	if entry.SessionID == "" {
		entry.SessionID = middleware.GetSessionIDFromCtx(ctx)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if err := s.activityRepo.SaveActivity(ctx, entry); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record activity",
			slog.String("activity_type", string(entry.Type)),
			slog.String("entity_id", entry.EntityID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *activityService) ListActivities(ctx context.Context, params dto.ListActivitiesParams, requestingUserID string) ([]domain.ActivityLog, error) {
	actor, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting user: %w", err)
	}
	if !actor.IsSuperuser {
		return nil, fmt.Errorf("%w: superuser required", apperrors.ErrForbidden)
	}

	filter := portsrepo.ActivityFilter{
		EntityType: params.EntityType,
		EntityID:   params.EntityID,
	}
	if params.UserID != "" {
		filter.UserID = &params.UserID
	}
	if params.Type != "" {
		t := domain.ActivityType(params.Type)
		filter.Type = &t
	}

	logs, err := s.activityRepo.ListActivities(ctx, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.ActivityLog{}
	}
	return logs, nil
}
