package models

// Section represents an organizational section.
type Section struct {
	SectionID     string `json:"sectionID"`
	Name          string `json:"name"`
	IsReceiveDesk bool   `db:"is_receive_desk"`
	AuditFields
}

// SubSection represents a subdivision of a section.
type SubSection struct {
	SubSectionID string `json:"subSectionID"`
	SectionID    string `db:"section_id"`
	Name         string `json:"name"`
	AuditFields
}

// Role represents a grantable capability role.
type Role struct {
	RoleID      string `json:"roleID"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
