package seeds_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/databases/testdb"
	settingModel "schoolms_backend/internals/features/settings/settings/model"
	settingService "schoolms_backend/internals/features/settings/settings/service"
	userModel "schoolms_backend/internals/features/users/users/model"
	userService "schoolms_backend/internals/features/users/users/service"
	"schoolms_backend/internals/seeds"
)

func TestRunAllSeedsIsIdempotent(t *testing.T) {
	userService.BcryptCost = bcrypt.MinCost
	file := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"name":"Admin","email":"admin@test.local","password":"secret-123","roles":["admin"]}]`), 0o600))
	t.Setenv("SEED_USERS_FILE", file)
	t.Setenv("ADMIN_EMAIL", "")

	db := testdb.Open(t)
	require.NoError(t, seeds.RunAllSeeds(db))

	require.NoError(t, db.Model(&settingModel.SettingModel{}).
		Where("setting_group = ? AND setting_key = ?", settingModel.GroupLibrary, settingModel.KeyFinePerDay).
		Update("setting_value", "12").Error)

	counts := func() (roles, perms, grants, users, settings int64) {
		require.NoError(t, db.Model(&userModel.RoleModel{}).Count(&roles).Error)
		require.NoError(t, db.Model(&userModel.PermissionModel{}).Count(&perms).Error)
		require.NoError(t, db.Model(&userModel.RolePermission{}).Count(&grants).Error)
		require.NoError(t, db.Model(&userModel.UserModel{}).Count(&users).Error)
		require.NoError(t, db.Model(&settingModel.SettingModel{}).Count(&settings).Error)
		return
	}
	r1, p1, g1, u1, s1 := counts()
	require.NoError(t, seeds.RunAllSeeds(db))
	r2, p2, g2, u2, s2 := counts()

	assert.Equal(t, []int64{r1, p1, g1, u1, s1}, []int64{r2, p2, g2, u2, s2})
	assert.Equal(t, int64(len(constants.DefaultPermissions)), p1)
	assert.Equal(t, int64(1), u1)
	assert.Equal(t, int64(12), settingService.GetInt(db, settingModel.GroupLibrary, settingModel.KeyFinePerDay, 5))

	var admin userModel.UserModel
	require.NoError(t, db.Preload("Roles").First(&admin, "email = ?", "admin@test.local").Error)
	assert.Equal(t, []string{constants.RoleAdmin}, admin.RoleSlugs())
}

func TestRunAllSeedsWithoutUserFile(t *testing.T) {
	t.Setenv("SEED_USERS_FILE", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("ADMIN_EMAIL", "")
	db := testdb.Open(t)
	assert.NoError(t, seeds.RunAllSeeds(db))
	assert.False(t, settingService.GetBool(db, settingModel.GroupNotification, settingModel.KeyOverdueReminder, true))
}
