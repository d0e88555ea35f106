package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	"github.com/paperdesk/doc_tracking_app/internal/models"
	"github.com/paperdesk/doc_tracking_app/internal/utils/mapping"
)

type PgxActivityRepository struct {
	db *pgxpool.Pool
}

func newPgxActivityRepository(db *pgxpool.Pool) portsrepo.ActivityRepositoryFacade {
	return &PgxActivityRepository{db: db}
}

var _ portsrepo.ActivityRepositoryFacade = (*PgxActivityRepository)(nil)

func (r *PgxActivityRepository) SaveActivity(ctx context.Context, entry domain.ActivityLog) error {
	m := mapping.ToModelActivityLog(entry)
	query := `
		INSERT INTO activity_logs (user_id, activity_type, entity_type, entity_id, description, ip_address, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		m.UserID, m.Type, m.EntityType, m.EntityID, m.Description, m.IPAddress, m.SessionID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save activity log: %w", err)
	}
	return nil
}

func (r *PgxActivityRepository) ListActivities(ctx context.Context, filter portsrepo.ActivityFilter, limit int, offset int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var conditions []string
	var args []any
	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID != nil {
		conditions = append(conditions, "user_id = "+addArg(*filter.UserID))
	}
	if filter.Type != nil {
		conditions = append(conditions, "activity_type = "+addArg(string(*filter.Type)))
	}
	if filter.EntityType != "" {
		conditions = append(conditions, "entity_type = "+addArg(filter.EntityType))
	}
	if filter.EntityID != "" {
		conditions = append(conditions, "entity_id = "+addArg(filter.EntityID))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT log_id, user_id, activity_type, entity_type, entity_id, description, ip_address, session_id, created_at
		FROM activity_logs
		%s
		ORDER BY log_id DESC
		LIMIT %s OFFSET %s;
	`, where, addArg(limit), addArg(offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	var ms []models.ActivityLog
	for rows.Next() {
		var m models.ActivityLog
		if err := rows.Scan(&m.LogID, &m.UserID, &m.Type, &m.EntityType, &m.EntityID, &m.Description, &m.IPAddress, &m.SessionID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity log row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading activity log rows: %w", err)
	}

	return mapping.ToDomainActivityLogSlice(ms), nil
}
