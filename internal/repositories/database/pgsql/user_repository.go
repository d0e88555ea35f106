package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	"github.com/paperdesk/doc_tracking_app/internal/models"
	"github.com/paperdesk/doc_tracking_app/internal/utils/mapping"
)

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, username, password_hash, name, email, designation,
	section_id, sub_section_id, is_active, is_superuser,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at,
	refresh_token_hash, refresh_token_expiry_time`

func userScanDest(m *models.User) []any {
	return []any{
		&m.UserID, &m.Username, &m.PasswordHash, &m.Name, &m.Email, &m.Designation,
		&m.SectionID, &m.SubSectionID, &m.IsActive, &m.IsSuperuser,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.DeletedAt,
		&m.RefreshTokenHash, &m.RefreshTokenExpiryTime,
	}
}

func (r *PgxUserRepository) findUserBy(ctx context.Context, column string, value string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE %s = $1 AND deleted_at IS NULL;
	`, userColumns, column)

	var m models.User
	err := r.db.QueryRow(ctx, query, value).Scan(userScanDest(&m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by %s: %w", column, err)
	}

	user := mapping.ToDomainUser(m)
	roles, err := r.loadRoles(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

func (r *PgxUserRepository) loadRoles(ctx context.Context, userID string) ([]domain.RoleName, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.role_id
		WHERE ur.user_id = $1;
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles for user %s: %w", userID, err)
	}
	defer rows.Close()

	var roles []domain.RoleName
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		roles = append(roles, domain.RoleName(name))
	}
	return roles, rows.Err()
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUserBy(ctx, "user_id", userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findUserBy(ctx, "username", username)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUserBy(ctx, "email", email)
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE deleted_at IS NULL
		ORDER BY username
		LIMIT $1 OFFSET $2;
	`, userColumns)

	users, err := r.queryUsers(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.attachRoles(ctx, users)
}

func (r *PgxUserRepository) FindActiveUsersWithRoles(ctx context.Context) ([]domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE deleted_at IS NULL AND is_active = TRUE
		ORDER BY name;
	`, userColumns)

	users, err := r.queryUsers(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.attachRoles(ctx, users)
}

func (r *PgxUserRepository) FindUsersBySectionID(ctx context.Context, sectionID string) ([]domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE deleted_at IS NULL AND is_active = TRUE AND section_id = $1
		ORDER BY name;
	`, userColumns)

	users, err := r.queryUsers(ctx, query, sectionID)
	if err != nil {
		return nil, err
	}
	return r.attachRoles(ctx, users)
}

func (r *PgxUserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(userScanDest(&m)...); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, mapping.ToDomainUser(m))
	}
	return users, rows.Err()
}

// attachRoles loads every user's role grants in one query.
func (r *PgxUserRepository) attachRoles(ctx context.Context, users []domain.User) ([]domain.User, error) {
	if len(users) == 0 {
		return users, nil
	}

	ids := make([]string, len(users))
	index := make(map[string]int, len(users))
	for i, u := range users {
		ids[i] = u.UserID
		index[u.UserID] = i
	}

	rows, err := r.db.Query(ctx, `
		SELECT ur.user_id, r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.role_id
		WHERE ur.user_id = ANY($1);
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load role grants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID, name string
		if err := rows.Scan(&userID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan role grant row: %w", err)
		}
		if i, ok := index[userID]; ok {
			users[i].Roles = append(users[i].Roles, domain.RoleName(name))
		}
	}
	return users, rows.Err()
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (user_id, username, password_hash, name, email, designation,
			section_id, sub_section_id, is_active, is_superuser,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.db.Exec(ctx, query,
		m.UserID, m.Username, m.PasswordHash, m.Name, m.Email, m.Designation,
		m.SectionID, m.SubSectionID, m.IsActive, m.IsSuperuser,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %s already exists: %w", user.Username, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users SET name = $2, email = $3, designation = $4,
			section_id = $5, sub_section_id = $6, password_hash = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query,
		m.UserID, m.Name, m.Email, m.Designation,
		m.SectionID, m.SubSectionID, m.PasswordHash,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) SetUserActive(ctx context.Context, userID string, active bool, updatedBy string, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET is_active = $2, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1 AND deleted_at IS NULL;
	`, userID, active, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to set user active state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET refresh_token_hash = $2, refresh_token_expiry_time = $3
		WHERE user_id = $1 AND deleted_at IS NULL;
	`, userID, refreshTokenHash, refreshTokenExpiryTime)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET refresh_token_hash = NULL, refresh_token_expiry_time = NULL
		WHERE user_id = $1 AND deleted_at IS NULL;
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) AssignRole(ctx context.Context, userID string, role domain.RoleName, grantedBy string, grantedAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id, granted_by, granted_at)
		SELECT $1, r.role_id, $3, $4 FROM roles r WHERE r.name = $2
		ON CONFLICT (user_id, role_id) DO NOTHING;
	`, userID, string(role), grantedBy, grantedAt)
	if err != nil {
		return fmt.Errorf("failed to assign role %s: %w", role, err)
	}
	return nil
}

func (r *PgxUserRepository) RemoveRole(ctx context.Context, userID string, role domain.RoleName) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM user_roles ur
		USING roles r
		WHERE ur.role_id = r.role_id AND ur.user_id = $1 AND r.name = $2;
	`, userID, string(role))
	if err != nil {
		return fmt.Errorf("failed to remove role %s: %w", role, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
