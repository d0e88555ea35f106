package services

import (
	"context"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
)

// SectionSvcFacade defines section and sub-section reference-data operations.
type SectionSvcFacade interface {
	// GetSectionByID retrieves a section.
	GetSectionByID(ctx context.Context, sectionID string) (*domain.Section, error)

	// ListSections retrieves all sections.
	ListSections(ctx context.Context) ([]domain.Section, error)

	// CreateSection creates a section (superuser action).
	CreateSection(ctx context.Context, req dto.CreateSectionRequest, creatorUserID string) (*domain.Section, error)

	// UpdateSection updates a section (superuser action).
	UpdateSection(ctx context.Context, sectionID string, req dto.UpdateSectionRequest, requestingUserID string) (*domain.Section, error)

	// ListSubSections retrieves the sub-sections of a section.
	ListSubSections(ctx context.Context, sectionID string) ([]domain.SubSection, error)

	// CreateSubSection creates a sub-section (superuser action).
	CreateSubSection(ctx context.Context, sectionID string, req dto.CreateSubSectionRequest, creatorUserID string) (*domain.SubSection, error)

	// UpdateSubSection updates a sub-section (superuser action).
	UpdateSubSection(ctx context.Context, subSectionID string, req dto.UpdateSubSectionRequest, requestingUserID string) (*domain.SubSection, error)

	// DeleteSubSection removes a sub-section (superuser action).
	DeleteSubSection(ctx context.Context, subSectionID string, requestingUserID string) error
}
