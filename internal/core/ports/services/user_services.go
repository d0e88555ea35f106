package services

import (
	"context"
	"time"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID, roles included.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)

	// ListForwardingRoster retrieves every active user with roles loaded, the
	// candidate pool the forwarding policy filters.
	ListForwardingRoster(ctx context.Context) ([]domain.User, error)

	// ListSectionRoster retrieves the active members of a section.
	ListSectionRoster(ctx context.Context, sectionID string) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser creates a new user (superuser action).
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)

	// UpdateUser updates an existing user (self or superuser).
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)

	// SetUserActive deactivates or reactivates a user (superuser action).
	SetUserActive(ctx context.Context, userID string, active bool, requestingUserID string) error

	// AssignRole grants a capability role (superuser action).
	AssignRole(ctx context.Context, userID string, role domain.RoleName, requestingUserID string) error

	// RemoveRole revokes a capability role (superuser action).
	RemoveRole(ctx context.Context, userID string, role domain.RoleName, requestingUserID string) error

	// UpdateRefreshToken stores the hash and expiry of a newly issued refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the refresh token for a user.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with username and password.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
