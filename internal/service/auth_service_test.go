package service

import (
	"errors"
	"testing"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) AuthService {
	return NewAuthService(repository.NewUserRepo(db), repository.NewAuditRepo(db))
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	user := seedUser(t, db, "seller@pdv.local", model.RoleSeller)

	resp, err := svc.Login("seller@pdv.local", "secret123", "127.0.0.1", "test")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RoleSeller, resp.Role)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// Login audit entry recorded
	var auditCount int64
	db.Model(&model.AuditLog{}).Where("action = ?", model.AuditLogin).Count(&auditCount)
	assert.Equal(t, int64(1), auditCount)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	seedUser(t, db, "seller@pdv.local", model.RoleSeller)

	_, err := svc.Login("seller@pdv.local", "wrong", "", "")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.Login("nobody@pdv.local", "secret123", "", "")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLoginInactiveUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	user := seedUser(t, db, "seller@pdv.local", model.RoleSeller)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err := svc.Login("seller@pdv.local", "secret123", "", "")
	assert.True(t, errors.Is(err, ErrUserInactive))
}

func TestLoginRotatesSession(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	user := seedUser(t, db, "seller@pdv.local", model.RoleSeller)

	first, err := svc.Login("seller@pdv.local", "secret123", "", "")
	require.NoError(t, err)

	// Second login invalidates the first token's version
	_, err = svc.Login("seller@pdv.local", "secret123", "", "")
	require.NoError(t, err)

	claims, err := jwt.ValidateToken(first.Token)
	require.NoError(t, err)

	var stored model.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.NotEqual(t, stored.TokenVersion, claims.TokenVersion)
}

func TestResetPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	seedUser(t, db, "seller@pdv.local", model.RoleSeller)

	err := svc.ResetPassword("seller@pdv.local", "wrong", "newpass123")
	assert.True(t, errors.Is(err, ErrWrongPassword))

	require.NoError(t, svc.ResetPassword("seller@pdv.local", "secret123", "newpass123"))

	_, err = svc.Login("seller@pdv.local", "newpass123", "", "")
	assert.NoError(t, err)
}
