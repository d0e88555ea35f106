package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
)

type ReportingRepository struct {
	db *pgxpool.Pool
}

func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &ReportingRepository{db: db}
}

var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

// GetKindCounts aggregates one kind's dashboard numbers in a single scan.
// "Pending" means the status is non-terminal; for bills a fully paid bill is
// additionally excluded since payment freezes custody regardless of status.
func (r *ReportingRepository) GetKindCounts(ctx context.Context, kind domain.DocumentKind, userID string) (domain.KindCounts, error) {
	notTerminal := `current_status NOT IN ('Closed', 'Archived')`
	switch kind {
	case domain.KindLetter:
		notTerminal = `current_status NOT IN ('Closed', 'Archived', 'Replied')`
	case domain.KindBill:
		notTerminal = `current_status NOT IN ('Closed', 'Archived') AND payment_status <> 'Paid'`
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE %s),
			COUNT(*) FILTER (WHERE is_parked),
			COUNT(*) FILTER (WHERE current_holder = $1)
		FROM %s;
	`, notTerminal, docTable(kind))

	var counts domain.KindCounts
	err := r.db.QueryRow(ctx, query, userID).Scan(&counts.Total, &counts.Pending, &counts.Parked, &counts.MyDesk)
	if err != nil {
		return domain.KindCounts{}, fmt.Errorf("failed to count %s documents: %w", docTable(kind), err)
	}
	return counts, nil
}

func (r *ReportingRepository) CountOverdueReplies(ctx context.Context, asOf time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM letters
		WHERE reply_required = TRUE
			AND replied_date IS NULL
			AND reply_deadline IS NOT NULL
			AND reply_deadline < $1;
	`, asOf).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue replies: %w", err)
	}
	return count, nil
}

func (r *ReportingRepository) GetSectionHoldings(ctx context.Context) ([]domain.SectionHolding, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.section_id, s.name, COUNT(d.current_section_id)
		FROM sections s
		LEFT JOIN (
			SELECT current_section_id FROM notesheets
			UNION ALL
			SELECT current_section_id FROM bills
			UNION ALL
			SELECT current_section_id FROM letters
		) d ON d.current_section_id = s.section_id
		GROUP BY s.section_id, s.name
		ORDER BY s.name;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query section holdings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.SectionHolding
	for rows.Next() {
		var h domain.SectionHolding
		if err := rows.Scan(&h.SectionID, &h.SectionName, &h.Count); err != nil {
			return nil, fmt.Errorf("failed to scan section holding row: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}
