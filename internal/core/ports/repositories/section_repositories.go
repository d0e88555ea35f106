package repositories

import (
	"context"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// SectionReader defines read operations for section reference data
type SectionReader interface {
	// FindSectionByID retrieves a section by its ID.
	FindSectionByID(ctx context.Context, sectionID string) (*domain.Section, error)

	// ListSections retrieves all sections, name order.
	ListSections(ctx context.Context) ([]domain.Section, error)

	// FindSubSectionByID retrieves a sub-section by its ID.
	FindSubSectionByID(ctx context.Context, subSectionID string) (*domain.SubSection, error)

	// ListSubSections retrieves the sub-sections of a section, name order.
	ListSubSections(ctx context.Context, sectionID string) ([]domain.SubSection, error)
}

// SectionWriter defines write operations for section reference data
type SectionWriter interface {
	// SaveSection persists a new section. A duplicate name yields apperrors.ErrDuplicate.
	SaveSection(ctx context.Context, section domain.Section) error

	// UpdateSection updates an existing section.
	UpdateSection(ctx context.Context, section domain.Section) error

	// SaveSubSection persists a new sub-section under its parent section.
	SaveSubSection(ctx context.Context, subSection domain.SubSection) error

	// UpdateSubSection updates an existing sub-section.
	UpdateSubSection(ctx context.Context, subSection domain.SubSection) error

	// DeleteSubSection removes a sub-section; fails if documents still point at it.
	DeleteSubSection(ctx context.Context, subSectionID string) error
}

// SectionRepositoryFacade combines all section-related repository interfaces
type SectionRepositoryFacade interface {
	SectionReader
	SectionWriter
}
