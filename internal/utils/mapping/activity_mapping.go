package mapping

import (
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	"github.com/paperdesk/doc_tracking_app/internal/models"
)

func ToModelActivityLog(d domain.ActivityLog) models.ActivityLog {
	return models.ActivityLog{
		LogID:       d.LogID,
		UserID:      d.UserID,
		Type:        string(d.Type),
		EntityType:  d.EntityType,
		EntityID:    d.EntityID,
		Description: d.Description,
		IPAddress:   d.IPAddress,
		SessionID:   d.SessionID,
		CreatedAt:   d.CreatedAt,
	}
}

func ToDomainActivityLog(m models.ActivityLog) domain.ActivityLog {
	return domain.ActivityLog{
		LogID:       m.LogID,
		UserID:      m.UserID,
		Type:        domain.ActivityType(m.Type),
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		Description: m.Description,
		IPAddress:   m.IPAddress,
		SessionID:   m.SessionID,
		CreatedAt:   m.CreatedAt,
	}
}

func ToDomainActivityLogSlice(ms []models.ActivityLog) []domain.ActivityLog {
	ds := make([]domain.ActivityLog, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainActivityLog(m)
	}
	return ds
}
