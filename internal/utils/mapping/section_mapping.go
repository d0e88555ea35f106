package mapping

import (
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	"github.com/paperdesk/doc_tracking_app/internal/models"
)

func ToModelSection(d domain.Section) models.Section {
	return models.Section{
		SectionID:     d.SectionID,
		Name:          d.Name,
		IsReceiveDesk: d.IsReceiveDesk,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainSection(m models.Section) domain.Section {
	return domain.Section{
		SectionID:     m.SectionID,
		Name:          m.Name,
		IsReceiveDesk: m.IsReceiveDesk,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelSubSection(d domain.SubSection) models.SubSection {
	return models.SubSection{
		SubSectionID: d.SubSectionID,
		SectionID:    d.SectionID,
		Name:         d.Name,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainSubSection(m models.SubSection) domain.SubSection {
	return domain.SubSection{
		SubSectionID: m.SubSectionID,
		SectionID:    m.SectionID,
		Name:         m.Name,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
