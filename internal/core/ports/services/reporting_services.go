package services

import (
	"context"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// ReportingSvcFacade produces the dashboard aggregates.
type ReportingSvcFacade interface {
	// GetDashboardStats computes the landing-page numbers for one user.
	GetDashboardStats(ctx context.Context, userID string) (*domain.DashboardStats, error)
}
