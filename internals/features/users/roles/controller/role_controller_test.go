package controller_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/databases/testdb"
	activity "schoolms_backend/internals/features/activity_logs/model"
	"schoolms_backend/internals/features/users/roles/route"
	userModel "schoolms_backend/internals/features/users/users/model"
	userService "schoolms_backend/internals/features/users/users/service"
	helperAuth "schoolms_backend/internals/helpers/auth"
	"schoolms_backend/internals/middlewares"
	"schoolms_backend/internals/seeds/users/roles"
)

func init() { userService.BcryptCost = bcrypt.MinCost }

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func createUser(t *testing.T, db *gorm.DB, email, role string) userModel.UserModel {
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

func newApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	require.NoError(t, roles.SeedRolesAndPermissions(db))
	admin := createUser(t, db, "admin@school.local", constants.RoleAdmin)

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocUserID, admin.ID.String())
		c.Locals(helperAuth.LocRoles, []string{constants.RoleAdmin})
		return c.Next()
	})
	route.RoleAdminRoutes(api, db)
	return app, db
}

func send(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 {
		require.NoError(t, sonic.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func logCount(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&activity.ActivityLogModel{}).
		Where("activity_log_model_type = ? AND activity_log_action = ?", "role", action).
		Count(&n).Error)
	return n
}

func TestCreateAndDeleteRole(t *testing.T) {
	app, db := newApp(t)

	status, env := send(t, app, http.MethodPost, "/api/roles", `{"name":"Librarian Assistant"}`)
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.Equal(t, "librarian-assistant", env.Data["slug"])
	assert.Equal(t, int64(1), logCount(t, db, activity.ActionCreated))

	id, _ := env.Data["id"].(string)
	require.NotEmpty(t, id)

	status, _ = send(t, app, http.MethodPost, "/api/roles", `{"name":"Librarian Assistant"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, int64(1), logCount(t, db, activity.ActionCreated))

	status, _ = send(t, app, http.MethodDelete, "/api/roles/"+id, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), logCount(t, db, activity.ActionDeleted))

	status, _ = send(t, app, http.MethodGet, "/api/roles/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteRoleInUse(t *testing.T) {
	app, db := newApp(t)
	createUser(t, db, "teacher@school.local", constants.RoleTeacher)

	var teacher userModel.RoleModel
	require.NoError(t, db.Where("slug = ?", constants.RoleTeacher).Take(&teacher).Error)

	status, env := send(t, app, http.MethodDelete, "/api/roles/"+teacher.ID.String(), "")
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "assigned to 1 user(s)")

	var n int64
	require.NoError(t, db.Model(&userModel.RoleModel{}).Where("id = ?", teacher.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
	assert.Zero(t, logCount(t, db, activity.ActionDeleted))
}
