package service

import (
	"errors"
	"testing"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) UserService {
	return NewUserService(repository.NewUserRepo(db), repository.NewAuditRepo(db))
}

func TestCreateUserDefaultRole(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)

	user, err := svc.CreateUser(&CreateUserRequest{
		Email:    "novo@pdv.local",
		Password: "secret123",
		FullName: "Novo Usuario",
	}, actorFor(admin))
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.True(t, user.CheckPassword("secret123"))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)

	_, err := svc.CreateUser(&CreateUserRequest{
		Email:    "admin@pdv.local",
		Password: "secret123",
		FullName: "Duplicado",
	}, actorFor(admin))
	assert.True(t, errors.Is(err, ErrEmailTaken))
}

func TestUpdateUserRoleChangeKillsSession(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)
	seller := seedUser(t, db, "seller@pdv.local", model.RoleSeller)

	require.NoError(t, db.Model(seller).Update("token_version", "v1").Error)

	active := true
	_, err := svc.UpdateUser(seller.ID, &UpdateUserRequest{
		Email:    seller.Email,
		FullName: seller.FullName,
		Role:     model.RoleManager,
		IsActive: &active,
	}, actorFor(admin))
	require.NoError(t, err)

	var stored model.User
	require.NoError(t, db.First(&stored, "id = ?", seller.ID).Error)
	assert.Equal(t, model.RoleManager, stored.Role)
	assert.NotEqual(t, "v1", stored.TokenVersion)
}

func TestUserCPFUniqueness(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)

	first, err := svc.CreateUser(&CreateUserRequest{
		Email:    "um@pdv.local",
		Password: "secret123",
		FullName: "Primeiro Usuario",
		CPF:      "529.982.247-25",
	}, actorFor(admin))
	require.NoError(t, err)
	require.NotNil(t, first.CPF)
	assert.Equal(t, "52998224725", *first.CPF)

	_, err = svc.CreateUser(&CreateUserRequest{
		Email:    "dois@pdv.local",
		Password: "secret123",
		FullName: "Segundo Usuario",
		CPF:      "52998224725",
	}, actorFor(admin))
	assert.True(t, errors.Is(err, ErrUserCPFTaken))

	// Re-submitting a user's own CPF on update is not a conflict
	_, err = svc.UpdateUser(first.ID, &UpdateUserRequest{
		Email:    first.Email,
		FullName: first.FullName,
		Role:     first.Role,
		CPF:      "529.982.247-25",
	}, actorFor(admin))
	require.NoError(t, err)
}

func TestDeleteUserSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	admin := seedUser(t, db, "admin@pdv.local", model.RoleAdmin)

	err := svc.DeleteUser(admin.ID, actorFor(admin))
	assert.True(t, errors.Is(err, ErrSelfDeletion))

	other := seedUser(t, db, "other@pdv.local", model.RoleSeller)
	require.NoError(t, svc.DeleteUser(other.ID, actorFor(admin)))

	// Soft deleted: gone from default queries
	var count int64
	db.Model(&model.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
