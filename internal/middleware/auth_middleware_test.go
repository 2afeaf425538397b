package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	userRepo := repository.NewUserRepo(db)

	app := fiber.New()
	protected := app.Group("", RequireAuth(userRepo))
	protected.Get("/any-staff", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"role": c.Locals("user_role")})
	})
	protected.Get("/managers-only", RequireRole(model.ManagerRoles...), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	protected.Get("/admin-only", RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	return app, db
}

func loginAs(t *testing.T, db *gorm.DB, email, role string) string {
	t.Helper()
	user := &model.User{
		Email:        email,
		FullName:     "Test " + role,
		Role:         role,
		IsActive:     true,
		TokenVersion: "v1",
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, user.Role, user.TokenVersion)
	require.NoError(t, err)
	return token
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRequireAuthMissingToken(t *testing.T) {
	app, _ := setupApp(t)
	resp := get(t, app, "/any-staff", "")
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireAuthBadToken(t *testing.T) {
	app, _ := setupApp(t)
	resp := get(t, app, "/any-staff", "not-a-token")
	assert.Equal(t, 401, resp.StatusCode)
}

func TestCustomerHasNoAccess(t *testing.T) {
	app, db := setupApp(t)
	token := loginAs(t, db, "client@pdv.local", model.RoleCustomer)

	resp := get(t, app, "/any-staff", token)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestRoleAccessMatrix(t *testing.T) {
	app, db := setupApp(t)
	sellerToken := loginAs(t, db, "seller@pdv.local", model.RoleSeller)
	managerToken := loginAs(t, db, "manager@pdv.local", model.RoleManager)
	adminToken := loginAs(t, db, "admin@pdv.local", model.RoleAdmin)

	cases := []struct {
		path   string
		token  string
		status int
	}{
		{"/any-staff", sellerToken, 200},
		{"/any-staff", managerToken, 200},
		{"/any-staff", adminToken, 200},
		{"/managers-only", sellerToken, 403},
		{"/managers-only", managerToken, 200},
		{"/managers-only", adminToken, 200},
		{"/admin-only", sellerToken, 403},
		{"/admin-only", managerToken, 403},
		{"/admin-only", adminToken, 200},
	}
	for _, tc := range cases {
		resp := get(t, app, tc.path, tc.token)
		assert.Equal(t, tc.status, resp.StatusCode, "path %s", tc.path)
	}
}

func TestStaleTokenVersionRejected(t *testing.T) {
	app, db := setupApp(t)
	token := loginAs(t, db, "seller@pdv.local", model.RoleSeller)

	// New login elsewhere rotates the version
	require.NoError(t, db.Model(&model.User{}).
		Where("email = ?", "seller@pdv.local").
		Update("token_version", "v2").Error)

	resp := get(t, app, "/any-staff", token)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestInactiveUserRejected(t *testing.T) {
	app, db := setupApp(t)
	token := loginAs(t, db, "seller@pdv.local", model.RoleSeller)

	require.NoError(t, db.Model(&model.User{}).
		Where("email = ?", "seller@pdv.local").
		Update("is_active", false).Error)

	resp := get(t, app, "/any-staff", token)
	assert.Equal(t, 401, resp.StatusCode)
}
