package services

import (
	"context"
	"fmt"
	"time"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
)

type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) GetDashboardStats(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	for _, k := range []struct {
		kind domain.DocumentKind
		dest *domain.KindCounts
	}{
		{domain.KindNotesheet, &stats.Notesheets},
		{domain.KindBill, &stats.Bills},
		{domain.KindLetter, &stats.Letters},
	} {
		counts, err := s.reportingRepo.GetKindCounts(ctx, k.kind, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", k.kind, err)
		}
		*k.dest = counts
	}

	overdue, err := s.reportingRepo.CountOverdueReplies(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue replies: %w", err)
	}
	stats.OverdueReplies = overdue

	holdings, err := s.reportingRepo.GetSectionHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load section holdings: %w", err)
	}
	stats.SectionHoldings = holdings

	return stats, nil
}
