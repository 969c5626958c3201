package services

import (
	"testing"
	"time"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	return NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	service := newAuthService(t)

	user, err := service.Register(&RegisterRequest{
		Username: "vasya",
		Email:    "vasya@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role) // роль по умолчанию
	assert.NotEqual(t, "secret123", user.PasswordHash)

	result, err := service.Login("vasya", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	validated, err := service.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, validated.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	service := newAuthService(t)

	_, err := service.Register(&RegisterRequest{
		Username: "vasya",
		Email:    "vasya@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = service.Login("vasya", "wrong")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.Login("nosuchuser", "secret123")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicate(t *testing.T) {
	service := newAuthService(t)

	_, err := service.Register(&RegisterRequest{
		Username: "vasya",
		Email:    "vasya@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = service.Register(&RegisterRequest{
		Username: "vasya",
		Email:    "other@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Адрес сравнивается без учета регистра
	_, err = service.Register(&RegisterRequest{
		Username: "petya",
		Email:    "VASYA@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterRestrictedRoles(t *testing.T) {
	service := newAuthService(t)

	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleStaff, "hacker"} {
		_, err := service.Register(&RegisterRequest{
			Username: "user-" + string(role),
			Email:    string(role) + "@example.com",
			Password: "secret123",
			Role:     role,
		})
		assert.ErrorIs(t, err, ErrValidation, "role %s", role)
	}

	for _, role := range []models.UserRole{models.RoleTeacher, models.RoleParent} {
		_, err := service.Register(&RegisterRequest{
			Username: "ok-" + string(role),
			Email:    "ok-" + string(role) + "@example.com",
			Password: "secret123",
			Role:     role,
		})
		assert.NoError(t, err, "role %s", role)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service := newAuthService(t)

	_, err := service.ValidateToken("not.a.token")
	assert.Error(t, err)

	// Токен с чужим секретом
	other := newAuthService(t)
	_, err = other.Register(&RegisterRequest{
		Username: "vasya",
		Email:    "vasya@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	foreign := NewAuthService(repository.NewUserRepository(newTestDB(t)), "other-secret", time.Hour)
	result, err := other.Login("vasya", "secret123")
	require.NoError(t, err)

	_, err = foreign.ValidateToken(result.Token)
	assert.Error(t, err)
}
