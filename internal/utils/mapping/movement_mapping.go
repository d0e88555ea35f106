package mapping

import (
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	"github.com/paperdesk/doc_tracking_app/internal/models"
)

// ToModelMovement converts a domain Movement to its table row shape.
func ToModelMovement(d domain.Movement) models.Movement {
	return models.Movement{
		MovementID:       d.MovementID,
		DocumentID:       d.DocumentID,
		FromUser:         d.FromUser,
		ToUser:           d.ToUser,
		FromSectionID:    d.FromSectionID,
		ToSectionID:      d.ToSectionID,
		FromSubSectionID: d.FromSubSectionID,
		ToSubSectionID:   d.ToSubSectionID,
		ForwardedBy:      d.ForwardedBy,
		ForwardedDate:    d.ForwardedDate,
		ActionTaken:      string(d.Action),
		Comments:         d.Comments,
		IsCurrent:        d.IsCurrent,
		CreatedAt:        d.CreatedAt,
		CreatedBy:        d.CreatedBy,
	}
}

// ToDomainMovement converts a table row to a domain Movement.
func ToDomainMovement(m models.Movement) domain.Movement {
	return domain.Movement{
		MovementID:       m.MovementID,
		DocumentID:       m.DocumentID,
		FromUser:         m.FromUser,
		ToUser:           m.ToUser,
		FromSectionID:    m.FromSectionID,
		ToSectionID:      m.ToSectionID,
		FromSubSectionID: m.FromSubSectionID,
		ToSubSectionID:   m.ToSubSectionID,
		ForwardedBy:      m.ForwardedBy,
		ForwardedDate:    m.ForwardedDate,
		Action:           domain.MovementAction(m.ActionTaken),
		Comments:         m.Comments,
		IsCurrent:        m.IsCurrent,
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}
}

// ToDomainMovementSlice converts a slice of movement rows.
func ToDomainMovementSlice(ms []models.Movement) []domain.Movement {
	ds := make([]domain.Movement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMovement(m)
	}
	return ds
}
