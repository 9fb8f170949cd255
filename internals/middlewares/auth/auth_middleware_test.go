package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/databases/testdb"
	authService "schoolms_backend/internals/features/users/auth/service"
	userModel "schoolms_backend/internals/features/users/users/model"
	userService "schoolms_backend/internals/features/users/users/service"
	helperAuth "schoolms_backend/internals/helpers/auth"
	"schoolms_backend/internals/middlewares"
	"schoolms_backend/internals/middlewares/auth"
	"schoolms_backend/internals/seeds/users/roles"
)

const secret = "test-secret"

func init() { userService.BcryptCost = bcrypt.MinCost }

func newApp(db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	g := app.Group("/api", auth.AuthJWT(auth.AuthJWTOpts{Secret: secret, DB: db}))
	g.Get("/me", func(c *fiber.Ctx) error {
		id, err := helperAuth.GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})
	g.Get("/books", auth.RequirePermission(db, constants.PermLibraryView), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	g.Delete("/books", auth.RequirePermission(db, constants.PermLibraryManage), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func userWithRole(t *testing.T, db *gorm.DB, email, role string) userModel.UserModel {
	t.Helper()
	var u *userModel.UserModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		u, err = userService.CreateUserTx(tx, userService.NewUser{Name: email, Email: email, Password: "secret-123", RoleSlugs: []string{role}})
		return err
	})
	require.NoError(t, err)
	return *u
}

func call(t *testing.T, app *fiber.App, method, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthJWT(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, roles.SeedRolesAndPermissions(db))
	app := newApp(db)
	tokens := authService.NewTokenService(secret, time.Hour)

	u := userWithRole(t, db, "teacher@school.local", constants.RoleTeacher)
	good, _, err := tokens.Issue(u.ID, []string{constants.RoleTeacher})
	require.NoError(t, err)
	forged, _, err := authService.NewTokenService("other-secret", time.Hour).Issue(u.ID, nil)
	require.NoError(t, err)
	ghost, _, err := tokens.Issue(uuid.New(), nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", forged, http.StatusUnauthorized},
		{"unknown user", ghost, http.StatusUnauthorized},
		{"valid", good, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(t, app, http.MethodGet, "/api/me", tt.token))
		})
	}

	require.NoError(t, db.Model(&userModel.UserModel{}).Where("id = ?", u.ID).Update("status", userModel.UserStatusInactive).Error)
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/me", good))
}

func TestRequirePermission(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, roles.SeedRolesAndPermissions(db))
	app := newApp(db)
	tokens := authService.NewTokenService(secret, time.Hour)

	teacher := userWithRole(t, db, "teacher@school.local", constants.RoleTeacher)
	teacherToken, _, err := tokens.Issue(teacher.ID, []string{constants.RoleTeacher})
	require.NoError(t, err)

	admin := userWithRole(t, db, "admin@school.local", constants.RoleAdmin)
	adminToken, _, err := tokens.Issue(admin.ID, []string{constants.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodGet, "/api/books", teacherToken))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodDelete, "/api/books", teacherToken))
	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/api/books", adminToken))
}
