package mapping

import (
	"database/sql"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	"github.com/paperdesk/doc_tracking_app/internal/models"
)

// ToModelUser converts a domain User to its table row shape. Roles are stored
// in a join table and are not part of the row.
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Email:        d.Email,
		Designation:  d.Designation,
		SectionID:    d.SectionID,
		SubSectionID: d.SubSectionID,
		IsActive:     d.IsActive,
		IsSuperuser:  d.IsSuperuser,
		AuditFields:  ToModelAuditFields(d.AuditFields),
		DeletedAt:    d.DeletedAt,
	}
	if d.RefreshTokenHash != "" {
		m.RefreshTokenHash = sql.NullString{String: d.RefreshTokenHash, Valid: true}
	}
	if d.RefreshTokenExpiryTime != nil {
		m.RefreshTokenExpiryTime = sql.NullTime{Time: *d.RefreshTokenExpiryTime, Valid: true}
	}
	return m
}

// ToDomainUser converts a user row to a domain User. Roles must be attached
// separately by the repository.
func ToDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Email:        m.Email,
		Designation:  m.Designation,
		SectionID:    m.SectionID,
		SubSectionID: m.SubSectionID,
		IsActive:     m.IsActive,
		IsSuperuser:  m.IsSuperuser,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
		DeletedAt:    m.DeletedAt,
	}
	if m.RefreshTokenHash.Valid {
		d.RefreshTokenHash = m.RefreshTokenHash.String
	}
	if m.RefreshTokenExpiryTime.Valid {
		t := m.RefreshTokenExpiryTime.Time
		d.RefreshTokenExpiryTime = &t
	}
	return d
}

// ToDomainRole converts a role row to a domain Role.
func ToDomainRole(m models.Role) domain.Role {
	return domain.Role{
		RoleID:      m.RoleID,
		Name:        domain.RoleName(m.Name),
		Description: m.Description,
	}
}
