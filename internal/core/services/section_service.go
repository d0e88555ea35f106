package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
)

type sectionService struct {
	sectionRepo portsrepo.SectionRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
}

func NewSectionService(sectionRepo portsrepo.SectionRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.SectionSvcFacade {
	return &sectionService{sectionRepo: sectionRepo, userRepo: userRepo}
}

var _ portssvc.SectionSvcFacade = (*sectionService)(nil)

func (s *sectionService) requireSuperuser(ctx context.Context, actorID string) error {
	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to load acting user: %w", err)
	}
	if !actor.IsSuperuser || !actor.IsActive {
		return fmt.Errorf("%w: superuser required", apperrors.ErrForbidden)
	}
	return nil
}

func (s *sectionService) GetSectionByID(ctx context.Context, sectionID string) (*domain.Section, error) {
	return s.sectionRepo.FindSectionByID(ctx, sectionID)
}

func (s *sectionService) ListSections(ctx context.Context) ([]domain.Section, error) {
	return s.sectionRepo.ListSections(ctx)
}

func (s *sectionService) CreateSection(ctx context.Context, req dto.CreateSectionRequest, creatorUserID string) (*domain.Section, error) {
	if err := s.requireSuperuser(ctx, creatorUserID); err != nil {
		return nil, err
	}

	now := time.Now()
	section := domain.Section{
		SectionID:     uuid.NewString(),
		Name:          req.Name,
		IsReceiveDesk: req.IsReceiveDesk,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.sectionRepo.SaveSection(ctx, section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (s *sectionService) UpdateSection(ctx context.Context, sectionID string, req dto.UpdateSectionRequest, requestingUserID string) (*domain.Section, error) {
	if err := s.requireSuperuser(ctx, requestingUserID); err != nil {
		return nil, err
	}

	section, err := s.sectionRepo.FindSectionByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		section.Name = *req.Name
	}
	if req.IsReceiveDesk != nil {
		section.IsReceiveDesk = *req.IsReceiveDesk
	}
	section.LastUpdatedAt = time.Now()
	section.LastUpdatedBy = requestingUserID

	if err := s.sectionRepo.UpdateSection(ctx, *section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *sectionService) ListSubSections(ctx context.Context, sectionID string) ([]domain.SubSection, error) {
	if _, err := s.sectionRepo.FindSectionByID(ctx, sectionID); err != nil {
		return nil, err
	}
	return s.sectionRepo.ListSubSections(ctx, sectionID)
}

func (s *sectionService) CreateSubSection(ctx context.Context, sectionID string, req dto.CreateSubSectionRequest, creatorUserID string) (*domain.SubSection, error) {
	if err := s.requireSuperuser(ctx, creatorUserID); err != nil {
		return nil, err
	}
	if _, err := s.sectionRepo.FindSectionByID(ctx, sectionID); err != nil {
		return nil, err
	}

	now := time.Now()
	subSection := domain.SubSection{
		SubSectionID: uuid.NewString(),
		SectionID:    sectionID,
		Name:         req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.sectionRepo.SaveSubSection(ctx, subSection); err != nil {
		return nil, err
	}
	return &subSection, nil
}

func (s *sectionService) UpdateSubSection(ctx context.Context, subSectionID string, req dto.UpdateSubSectionRequest, requestingUserID string) (*domain.SubSection, error) {
	if err := s.requireSuperuser(ctx, requestingUserID); err != nil {
		return nil, err
	}

	subSection, err := s.sectionRepo.FindSubSectionByID(ctx, subSectionID)
	if err != nil {
		return nil, err
	}

	subSection.Name = req.Name
	subSection.LastUpdatedAt = time.Now()
	subSection.LastUpdatedBy = requestingUserID

	if err := s.sectionRepo.UpdateSubSection(ctx, *subSection); err != nil {
		return nil, err
	}
	return subSection, nil
}

func (s *sectionService) DeleteSubSection(ctx context.Context, subSectionID string, requestingUserID string) error {
	if err := s.requireSuperuser(ctx, requestingUserID); err != nil {
		return err
	}
	return s.sectionRepo.DeleteSubSection(ctx, subSectionID)
}
