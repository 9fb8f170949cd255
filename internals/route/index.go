package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	examRoute "schoolms_backend/internals/features/academics/exams/route"
	promotionRoute "schoolms_backend/internals/features/academics/promotions/route"
	resultRoute "schoolms_backend/internals/features/academics/results/route"
	activityRoute "schoolms_backend/internals/features/activity_logs/route"
	attendanceRoute "schoolms_backend/internals/features/attendance/attendances/route"
	deviceRoute "schoolms_backend/internals/features/attendance/device_settings/route"
	deviceService "schoolms_backend/internals/features/attendance/device_settings/service"
	holidayRoute "schoolms_backend/internals/features/attendance/holidays/route"
	dashboardRoute "schoolms_backend/internals/features/dashboard/route"
	feeRoute "schoolms_backend/internals/features/finance/fee_collections/route"
	feeService "schoolms_backend/internals/features/finance/fee_collections/service"
	salaryRoute "schoolms_backend/internals/features/finance/salaries/route"
	issueRoute "schoolms_backend/internals/features/library/book_issues/route"
	bookRoute "schoolms_backend/internals/features/library/books/route"
	classRoute "schoolms_backend/internals/features/school/classes/route"
	studentRoute "schoolms_backend/internals/features/school/students/route"
	teacherRoute "schoolms_backend/internals/features/school/teachers/route"
	settingRoute "schoolms_backend/internals/features/settings/settings/route"
	staffRoute "schoolms_backend/internals/features/staff/staff/route"
	welfareRoute "schoolms_backend/internals/features/staff/welfare/route"
	authRoute "schoolms_backend/internals/features/users/auth/route"
	authService "schoolms_backend/internals/features/users/auth/service"
	permissionRoute "schoolms_backend/internals/features/users/permissions/route"
	roleRoute "schoolms_backend/internals/features/users/roles/route"
	userRoute "schoolms_backend/internals/features/users/users/route"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

// Deps carries the shared services built in main.
type Deps struct {
	DB                *gorm.DB
	JWTSecret         string
	Tokens            *authService.TokenService
	Gateway           feeService.Gateway
	DeviceSettings    *deviceService.DeviceSettingService
	LibraryFinePerDay int64
}

func SetupRoutes(app *fiber.App, d Deps) {
	db := d.DB
	BaseRoutes(app, db)

	api := app.Group("/api")

	// ===================== PUBLIC =====================
	logrus.Info("setting up public routes")
	authRoute.AuthPublicRoutes(api.Group("/auth"), db, d.Tokens)
	feeRoute.FeePaymentPublicRoutes(api, db, d.Gateway)

	// ===================== AUTHENTICATED =====================
	logrus.Info("setting up authenticated routes")
	private := api.Group("",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              d.JWTSecret,
			DB:                  db,
			AllowCookieFallback: true,
		}),
	)
	authRoute.AuthUserRoutes(private.Group("/auth"), db, d.Tokens)
	dashboardRoute.DashboardUserRoutes(private, db)

	userRoute.UserAdminRoutes(private, db)
	roleRoute.RoleAdminRoutes(private, db)
	permissionRoute.PermissionAdminRoutes(private, db)

	staffRoute.StaffAdminRoutes(private, db)
	welfareRoute.WelfareAdminRoutes(private, db)

	teacherRoute.TeacherAdminRoutes(private, db)
	studentRoute.StudentAdminRoutes(private, db)
	classRoute.ClassAdminRoutes(private, db)

	bookRoute.BookAdminRoutes(private, db)
	issueRoute.BookIssueAdminRoutes(private, db, d.LibraryFinePerDay)

	feeRoute.FeeCollectionAdminRoutes(private, db, d.Gateway)
	salaryRoute.SalaryAdminRoutes(private, db)

	holidayRoute.HolidayAdminRoutes(private, db, d.DeviceSettings)
	attendanceRoute.AttendanceAdminRoutes(private, db)
	// before /settings/:group
	deviceRoute.DeviceSettingAdminRoutes(private, db, d.DeviceSettings)

	examRoute.ExamAdminRoutes(private, db)
	resultRoute.ExamResultAdminRoutes(private, db)
	promotionRoute.StudentPromotionAdminRoutes(private, db)

	settingRoute.SettingAdminRoutes(private, db)
	activityRoute.ActivityLogAdminRoutes(private, db)
}
