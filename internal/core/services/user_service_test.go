package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/core/services"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
	"github.com/paperdesk/doc_tracking_app/internal/utils"
)

// --- Mock UserRepository (based on UserService usage) ---
type MockUserRepository struct {
	mock.Mock
	FindUserByIDFn             func(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsernameFn       func(ctx context.Context, username string) (*domain.User, error)
	FindUserByEmailFn          func(ctx context.Context, email string) (*domain.User, error)
	FindUsersFn                func(ctx context.Context, limit, offset int) ([]domain.User, error)
	FindActiveUsersWithRolesFn func(ctx context.Context) ([]domain.User, error)
	FindUsersBySectionIDFn     func(ctx context.Context, sectionID string) ([]domain.User, error)
	SaveUserFn                 func(ctx context.Context, user domain.User) error
	UpdateUserFn               func(ctx context.Context, user domain.User) error
	SetUserActiveFn            func(ctx context.Context, userID string, active bool, updatedBy string, updatedAt time.Time) error
	UpdateRefreshTokenFn       func(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error
	ClearRefreshTokenFn        func(ctx context.Context, userID string) error
	AssignRoleFn               func(ctx context.Context, userID string, role domain.RoleName, grantedBy string, grantedAt time.Time) error
	RemoveRoleFn               func(ctx context.Context, userID string, role domain.RoleName) error
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if m.FindUserByIDFn != nil {
		return m.FindUserByIDFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindUserByUsernameFn != nil {
		return m.FindUserByUsernameFn(ctx, username)
	}
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindUserByEmailFn != nil {
		return m.FindUserByEmailFn(ctx, email)
	}
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if m.FindUsersFn != nil {
		return m.FindUsersFn(ctx, limit, offset)
	}
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) FindActiveUsersWithRoles(ctx context.Context) ([]domain.User, error) {
	if m.FindActiveUsersWithRolesFn != nil {
		return m.FindActiveUsersWithRolesFn(ctx)
	}
	args := m.Called(ctx)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) FindUsersBySectionID(ctx context.Context, sectionID string) ([]domain.User, error) {
	if m.FindUsersBySectionIDFn != nil {
		return m.FindUsersBySectionIDFn(ctx, sectionID)
	}
	args := m.Called(ctx, sectionID)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	if m.SaveUserFn != nil {
		return m.SaveUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetUserActive(ctx context.Context, userID string, active bool, updatedBy string, updatedAt time.Time) error {
	if m.SetUserActiveFn != nil {
		return m.SetUserActiveFn(ctx, userID, active, updatedBy, updatedAt)
	}
	args := m.Called(ctx, userID, active, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if m.UpdateRefreshTokenFn != nil {
		return m.UpdateRefreshTokenFn(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	}
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	if m.ClearRefreshTokenFn != nil {
		return m.ClearRefreshTokenFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) AssignRole(ctx context.Context, userID string, role domain.RoleName, grantedBy string, grantedAt time.Time) error {
	if m.AssignRoleFn != nil {
		return m.AssignRoleFn(ctx, userID, role, grantedBy, grantedAt)
	}
	args := m.Called(ctx, userID, role, grantedBy, grantedAt)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveRole(ctx context.Context, userID string, role domain.RoleName) error {
	if m.RemoveRoleFn != nil {
		return m.RemoveRoleFn(ctx, userID, role)
	}
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

// --- Test Suite ---

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	recorder *recorderStub
	service  portssvc.UserSvcFacade
	ctx      context.Context
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockUserRepository)
	s.recorder = new(recorderStub)
	s.service = services.NewUserService(s.mockRepo, s.recorder)
	s.ctx = context.Background()
}

func (s *UserServiceTestSuite) superuser() *domain.User {
	return &domain.User{
		UserID:      uuid.NewString(),
		Username:    "admin",
		Name:        "Admin",
		IsActive:    true,
		IsSuperuser: true,
	}
}

func (s *UserServiceTestSuite) expectFindUser(users ...*domain.User) {
	s.mockRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		for _, u := range users {
			if u.UserID == userID {
				return u, nil
			}
		}
		return nil, apperrors.ErrNotFound
	}
}

// --- CreateUser ---

func (s *UserServiceTestSuite) TestCreateUser_SuccessHashesAndGrantsRoles() {
	admin := s.superuser()
	s.expectFindUser(admin)

	var saved domain.User
	s.mockRepo.SaveUserFn = func(ctx context.Context, user domain.User) error {
		saved = user
		return nil
	}
	var grantedRole domain.RoleName
	s.mockRepo.AssignRoleFn = func(ctx context.Context, userID string, role domain.RoleName, grantedBy string, grantedAt time.Time) error {
		grantedRole = role
		return nil
	}

	user, err := s.service.CreateUser(s.ctx, dto.CreateUserRequest{
		Username: "jdoe",
		Password: "a-long-password",
		Name:     "J. Doe",
		Roles:    []string{"section_head"},
	}, admin.UserID)

	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.True(user.IsActive)
	s.NotEqual("a-long-password", saved.PasswordHash, "password must never be stored in clear")
	s.True(utils.CheckPasswordHash("a-long-password", saved.PasswordHash))
	s.Equal(domain.RoleSectionHead, grantedRole)
	s.Equal(domain.ActivityUserChange, s.recorder.lastType())
}

func (s *UserServiceTestSuite) TestCreateUser_NonSuperuserForbidden() {
	plain := &domain.User{UserID: uuid.NewString(), Username: "plain", IsActive: true}
	s.expectFindUser(plain)

	user, err := s.service.CreateUser(s.ctx, dto.CreateUserRequest{
		Username: "jdoe",
		Password: "a-long-password",
		Name:     "J. Doe",
	}, plain.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Nil(user)
}

func (s *UserServiceTestSuite) TestCreateUser_DuplicateUsernameSurfaces() {
	admin := s.superuser()
	s.expectFindUser(admin)
	s.mockRepo.SaveUserFn = func(ctx context.Context, user domain.User) error {
		return apperrors.ErrDuplicate
	}

	_, err := s.service.CreateUser(s.ctx, dto.CreateUserRequest{
		Username: "jdoe",
		Password: "a-long-password",
		Name:     "J. Doe",
	}, admin.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

// --- UpdateUser ---

func (s *UserServiceTestSuite) TestUpdateUser_SelfServiceAllowed() {
	self := &domain.User{UserID: uuid.NewString(), Username: "self", Name: "Old Name", IsActive: true}
	s.expectFindUser(self)

	var updated domain.User
	s.mockRepo.UpdateUserFn = func(ctx context.Context, user domain.User) error {
		updated = user
		return nil
	}

	newName := "New Name"
	user, err := s.service.UpdateUser(s.ctx, self.UserID, dto.UpdateUserRequest{Name: &newName}, self.UserID)

	s.Require().NoError(err)
	s.Equal("New Name", user.Name)
	s.Equal("New Name", updated.Name)
	s.Equal(self.UserID, updated.LastUpdatedBy)
}

func (s *UserServiceTestSuite) TestUpdateUser_OtherUserRequiresSuperuser() {
	plain := &domain.User{UserID: uuid.NewString(), Username: "plain", IsActive: true}
	target := &domain.User{UserID: uuid.NewString(), Username: "target", IsActive: true}
	s.expectFindUser(plain, target)

	newName := "Hijacked"
	_, err := s.service.UpdateUser(s.ctx, target.UserID, dto.UpdateUserRequest{Name: &newName}, plain.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

// --- SetUserActive ---

func (s *UserServiceTestSuite) TestSetUserActive_SelfDeactivationRejected() {
	admin := s.superuser()
	s.expectFindUser(admin)

	err := s.service.SetUserActive(s.ctx, admin.UserID, false, admin.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *UserServiceTestSuite) TestSetUserActive_DeactivateOther() {
	admin := s.superuser()
	s.expectFindUser(admin)

	targetID := uuid.NewString()
	var gotActive bool
	s.mockRepo.SetUserActiveFn = func(ctx context.Context, userID string, active bool, updatedBy string, updatedAt time.Time) error {
		s.Equal(targetID, userID)
		gotActive = active
		return nil
	}

	err := s.service.SetUserActive(s.ctx, targetID, false, admin.UserID)

	s.Require().NoError(err)
	s.False(gotActive)
	s.Equal(domain.ActivityUserChange, s.recorder.lastType())
}

// --- Roles ---

func (s *UserServiceTestSuite) TestAssignRole_UnknownTargetNotFound() {
	admin := s.superuser()
	s.expectFindUser(admin)

	err := s.service.AssignRole(s.ctx, uuid.NewString(), domain.RoleSectionHead, admin.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *UserServiceTestSuite) TestRemoveRole_Success() {
	admin := s.superuser()
	target := &domain.User{UserID: uuid.NewString(), Username: "target", IsActive: true, Roles: []domain.RoleName{domain.RoleReceiveSection}}
	s.expectFindUser(admin, target)

	var removed domain.RoleName
	s.mockRepo.RemoveRoleFn = func(ctx context.Context, userID string, role domain.RoleName) error {
		removed = role
		return nil
	}

	err := s.service.RemoveRole(s.ctx, target.UserID, domain.RoleReceiveSection, admin.UserID)

	s.Require().NoError(err)
	s.Equal(domain.RoleReceiveSection, removed)
}

// --- AuthenticateUser ---

func (s *UserServiceTestSuite) TestAuthenticateUser_Success() {
	hash, err := utils.HashPassword("correct-horse")
	s.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "jdoe", PasswordHash: hash, IsActive: true}
	s.mockRepo.FindUserByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
		return user, nil
	}

	got, err := s.service.AuthenticateUser(s.ctx, "jdoe", "correct-horse")

	s.Require().NoError(err)
	s.Equal(user.UserID, got.UserID)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	hash, err := utils.HashPassword("correct-horse")
	s.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "jdoe", PasswordHash: hash, IsActive: true}
	s.mockRepo.FindUserByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
		return user, nil
	}

	_, err = s.service.AuthenticateUser(s.ctx, "jdoe", "wrong")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_UnknownUserIndistinguishable() {
	s.mockRepo.FindUserByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
		return nil, apperrors.ErrNotFound
	}

	_, err := s.service.AuthenticateUser(s.ctx, "ghost", "whatever")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized, "a missing user must not leak as a distinct error")
}

func (s *UserServiceTestSuite) TestAuthenticateUser_InactiveRejected() {
	hash, err := utils.HashPassword("correct-horse")
	s.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "jdoe", PasswordHash: hash, IsActive: false}
	s.mockRepo.FindUserByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
		return user, nil
	}

	_, err = s.service.AuthenticateUser(s.ctx, "jdoe", "correct-horse")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}
