package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
	"github.com/paperdesk/doc_tracking_app/internal/middleware"
	"github.com/paperdesk/doc_tracking_app/internal/utils"
)

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
	activity portssvc.ActivityRecorderSvc
}

func NewUserService(userRepo portsrepo.UserRepositoryFacade, activity portssvc.ActivityRecorderSvc) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, activity: activity}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.FindUserByUsername(ctx, username)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, email)
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.userRepo.FindUsers(ctx, limit, offset)
}

func (s *userService) ListForwardingRoster(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.FindActiveUsersWithRoles(ctx)
}

func (s *userService) ListSectionRoster(ctx context.Context, sectionID string) ([]domain.User, error) {
	return s.userRepo.FindUsersBySectionID(ctx, sectionID)
}

// requireSuperuser gates the roster-management actions.
func (s *userService) requireSuperuser(ctx context.Context, actorID string) (*domain.User, error) {
	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting user: %w", err)
	}
	if !actor.IsSuperuser || !actor.IsActive {
		return nil, fmt.Errorf("%w: superuser required", apperrors.ErrForbidden)
	}
	return actor, nil
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.requireSuperuser(ctx, creatorUserID); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Email:        req.Email,
		Designation:  req.Designation,
		SectionID:    req.SectionID,
		SubSectionID: req.SubSectionID,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	for _, role := range req.Roles {
		if err := s.userRepo.AssignRole(ctx, user.UserID, domain.RoleName(role), creatorUserID, now); err != nil {
			return nil, fmt.Errorf("failed to grant role %s: %w", role, err)
		}
		user.Roles = append(user.Roles, domain.RoleName(role))
	}

	logger.Info("User created", slog.String("new_user_id", user.UserID), slog.String("username", user.Username))
	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &creatorUserID,
		Type:        domain.ActivityUserChange,
		EntityType:  "user",
		EntityID:    user.UserID,
		Description: fmt.Sprintf("Created user %s", user.Username),
	})

	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	// Self-service or superuser.
	if userID != requestingUserID {
		if _, err := s.requireSuperuser(ctx, requestingUserID); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Designation != nil {
		user.Designation = *req.Designation
	}
	if req.SectionID != nil {
		user.SectionID = req.SectionID
	}
	if req.SubSectionID != nil {
		user.SubSectionID = req.SubSectionID
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &requestingUserID,
		Type:        domain.ActivityUserChange,
		EntityType:  "user",
		EntityID:    userID,
		Description: fmt.Sprintf("Updated user %s", user.Username),
	})

	return user, nil
}

func (s *userService) SetUserActive(ctx context.Context, userID string, active bool, requestingUserID string) error {
	if _, err := s.requireSuperuser(ctx, requestingUserID); err != nil {
		return err
	}
	if userID == requestingUserID && !active {
		return fmt.Errorf("%w: cannot deactivate yourself", apperrors.ErrValidation)
	}

	if err := s.userRepo.SetUserActive(ctx, userID, active, requestingUserID, time.Now()); err != nil {
		return err
	}

	verb := "Deactivated"
	if active {
		verb = "Reactivated"
	}
	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &requestingUserID,
		Type:        domain.ActivityUserChange,
		EntityType:  "user",
		EntityID:    userID,
		Description: fmt.Sprintf("%s user %s", verb, userID),
	})
	return nil
}

func (s *userService) AssignRole(ctx context.Context, userID string, role domain.RoleName, requestingUserID string) error {
	if _, err := s.requireSuperuser(ctx, requestingUserID); err != nil {
		return err
	}
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.AssignRole(ctx, userID, role, requestingUserID, time.Now()); err != nil {
		return err
	}

	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &requestingUserID,
		Type:        domain.ActivityUserChange,
		EntityType:  "user",
		EntityID:    userID,
		Description: fmt.Sprintf("Granted role %s to user %s", role, userID),
	})
	return nil
}

func (s *userService) RemoveRole(ctx context.Context, userID string, role domain.RoleName, requestingUserID string) error {
	if _, err := s.requireSuperuser(ctx, requestingUserID); err != nil {
		return err
	}

	if err := s.userRepo.RemoveRole(ctx, userID, role); err != nil {
		return err
	}

	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &requestingUserID,
		Type:        domain.ActivityUserChange,
		EntityType:  "user",
		EntityID:    userID,
		Description: fmt.Sprintf("Revoked role %s from user %s", role, userID),
	})
	return nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.ClearRefreshToken(ctx, userID)
}

// AuthenticateUser verifies credentials. A missing user and a wrong password
// are indistinguishable to the caller.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		logger.Warn("Login attempt for inactive user", slog.String("username", username))
		return nil, fmt.Errorf("%w: account is deactivated", apperrors.ErrUnauthorized)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return user, nil
}
