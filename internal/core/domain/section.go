package domain

// Section is an organizational unit documents move between. Pure reference
// data; behavior lives in the forwarding policy.
type Section struct {
	SectionID      string `json:"sectionID"` // Primary Key (UUID)
	Name           string `json:"name"`
	IsReceiveDesk  bool   `json:"isReceiveDesk"` // Marks the designated intake section
	AuditFields
}

// SubSection is a subdivision of a Section.
type SubSection struct {
	SubSectionID string `json:"subSectionID"` // Primary Key (UUID)
	SectionID    string `json:"sectionID"`    // FK -> sections.section_id
	Name         string `json:"name"`
	AuditFields
}
