package repositories

import (
	"context"
	"time"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// ReportingRepository defines the read-only aggregate queries behind the dashboard.
type ReportingRepository interface {
	// GetKindCounts returns totals for one document kind: overall, non-terminal,
	// parked, and currently on the given user's desk.
	GetKindCounts(ctx context.Context, kind domain.DocumentKind, userID string) (domain.KindCounts, error)

	// CountOverdueReplies counts letters requiring a reply whose deadline has passed
	// without a reply being recorded.
	CountOverdueReplies(ctx context.Context, asOf time.Time) (int64, error)

	// GetSectionHoldings returns, per section, how many documents of all kinds the
	// section currently holds.
	GetSectionHoldings(ctx context.Context) ([]domain.SectionHolding, error)
}
