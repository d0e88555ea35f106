package repositories

import (
	"context"
	"time"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID, roles included.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username, roles included.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email address, roles included.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)

	// FindActiveUsersWithRoles retrieves every active user with their roles loaded.
	// This is the roster the forwarding policy filters for candidate recipients.
	FindActiveUsersWithRoles(ctx context.Context) ([]domain.User, error)

	// FindUsersBySectionID retrieves the active members of one section.
	FindUsersBySectionID(ctx context.Context, sectionID string) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. A duplicate username yields apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error

	// SetUserActive activates or deactivates a user.
	SetUserActive(ctx context.Context, userID string, active bool, updatedBy string, updatedAt time.Time) error

	// UpdateRefreshToken stores the hash and expiry of a newly issued refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the stored refresh token for a user.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// RoleManager defines operations on role grants
type RoleManager interface {
	// AssignRole grants a role to a user; granting an already-held role is a no-op.
	AssignRole(ctx context.Context, userID string, role domain.RoleName, grantedBy string, grantedAt time.Time) error

	// RemoveRole revokes a role from a user.
	RemoveRole(ctx context.Context, userID string, role domain.RoleName) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	RoleManager
}
