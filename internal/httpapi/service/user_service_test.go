package service

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
)

func TestUserCreate_DefaultsToUserRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	mockUserRepo.On("FindByUsername", "plain").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "plain@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Create(dto.CreateUserRequest{
		Username: "plain",
		Email:    "plain@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestUserCreate_WithExplicitRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	mockUserRepo.On("FindByUsername", "mod").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "mod@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Create(dto.CreateUserRequest{
		Username: "mod",
		Email:    "mod@example.com",
		Role:     models.RoleModerator,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, user.Role)
}

// The unique index is the arbiter when two admin creates race; its rejection
// maps to the taken-identity sentinel instead of surfacing as a raw DB error.
func TestUserCreate_ConcurrentEmailTaken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	mockUserRepo.On("FindByUsername", "fresh").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "shared@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).
		Return(&pgconn.PgError{Code: "23505"})

	user, err := svc.Create(dto.CreateUserRequest{
		Username: "fresh",
		Email:    "shared@example.com",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestUserCreate_ReservedUsername(t *testing.T) {
	svc := NewUserService(new(MockUserRepository))

	user, err := svc.Create(dto.CreateUserRequest{Username: "me", Email: "me@example.com"})

	assert.ErrorIs(t, err, ErrInvalidUsername)
	assert.Nil(t, user)
}

func TestUpdateByUsername_AdminCanChangeRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	existing := &models.User{ID: 2, Username: "promotee", Email: "p@example.com", Role: models.RoleUser}
	mockUserRepo.On("FindByUsername", "promotee").Return(existing, nil)
	mockUserRepo.On("Save", mock.AnythingOfType("*models.User")).Return(nil)

	role := models.RoleModerator
	user, err := svc.UpdateByUsername("promotee", dto.UpdateUserRequest{Role: &role})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, user.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateSelf_RoleIsIgnored(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	existing := &models.User{ID: 2, Username: "sneaky", Email: "s@example.com", Role: models.RoleUser}
	mockUserRepo.On("FindByID", int64(2)).Return(existing, nil)
	mockUserRepo.On("Save", mock.AnythingOfType("*models.User")).Return(nil)

	role := models.RoleAdmin
	bio := "new bio"
	user, err := svc.UpdateSelf(2, dto.UpdateUserRequest{Role: &role, Bio: &bio})

	// the rest of the patch still applies, the role silently does not
	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "new bio", user.Bio)
}

func TestUpdateByUsername_UsernameCollision(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	existing := &models.User{ID: 2, Username: "old", Email: "o@example.com"}
	mockUserRepo.On("FindByUsername", "old").Return(existing, nil)
	mockUserRepo.On("FindByUsername", "occupied").Return(&models.User{Username: "occupied"}, nil)

	name := "occupied"
	user, err := svc.UpdateByUsername("old", dto.UpdateUserRequest{Username: &name})

	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything)
}

// An email change can race another writer past the pre-check; the Save
// rejection must resolve to the email sentinel, not the username one, since
// the lookup on the user's own name finds their own row.
func TestUpdateByUsername_ConcurrentEmailTaken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	existing := &models.User{ID: 2, Username: "steady", Email: "old@example.com"}
	mockUserRepo.On("FindByUsername", "steady").Return(existing, nil)
	mockUserRepo.On("FindByEmail", "claimed@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Save", mock.AnythingOfType("*models.User")).
		Return(&pgconn.PgError{Code: "23505"})

	email := "claimed@example.com"
	user, err := svc.UpdateByUsername("steady", dto.UpdateUserRequest{Email: &email})

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestDeleteByUsername_NotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	mockUserRepo.On("FindByUsername", "ghost").Return(nil, gorm.ErrRecordNotFound)

	err := svc.DeleteByUsername("ghost")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserList_WrapsPage(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewUserService(mockUserRepo)

	users := []models.User{
		{Username: "alpha", Email: "a@example.com", Role: models.RoleUser},
		{Username: "beta", Email: "b@example.com", Role: models.RoleAdmin},
	}
	mockUserRepo.On("List", "a", 1, 20).Return(users, int64(2), nil)

	page, err := svc.List("a", 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, "alpha", page.Data[0].Username)
}
