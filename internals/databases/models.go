package database

import (
	examModel "schoolms_backend/internals/features/academics/exams/model"
	promotionModel "schoolms_backend/internals/features/academics/promotions/model"
	resultModel "schoolms_backend/internals/features/academics/results/model"
	activityModel "schoolms_backend/internals/features/activity_logs/model"
	attendanceModel "schoolms_backend/internals/features/attendance/attendances/model"
	deviceModel "schoolms_backend/internals/features/attendance/device_settings/model"
	holidayModel "schoolms_backend/internals/features/attendance/holidays/model"
	feeModel "schoolms_backend/internals/features/finance/fee_collections/model"
	salaryModel "schoolms_backend/internals/features/finance/salaries/model"
	issueModel "schoolms_backend/internals/features/library/book_issues/model"
	bookModel "schoolms_backend/internals/features/library/books/model"
	classModel "schoolms_backend/internals/features/school/classes/model"
	studentModel "schoolms_backend/internals/features/school/students/model"
	teacherModel "schoolms_backend/internals/features/school/teachers/model"
	settingModel "schoolms_backend/internals/features/settings/settings/model"
	staffModel "schoolms_backend/internals/features/staff/staff/model"
	welfareModel "schoolms_backend/internals/features/staff/welfare/model"
	userModel "schoolms_backend/internals/features/users/users/model"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&userModel.PermissionModel{},
		&userModel.RoleModel{},
		&userModel.UserModel{},
		&userModel.UserRole{},
		&userModel.RolePermission{},

		&staffModel.StaffModel{},
		&welfareModel.StaffWelfareLoanModel{},
		&welfareModel.StaffWelfareRepaymentModel{},
		&welfareModel.StaffWelfareDonationModel{},

		&teacherModel.TeacherModel{},
		&classModel.ClassModel{},
		&studentModel.StudentModel{},

		&bookModel.BookModel{},
		&issueModel.BookIssueModel{},

		&feeModel.FeeCollectionModel{},
		&feeModel.FeeOnlinePaymentModel{},
		&salaryModel.SalaryModel{},

		&deviceModel.DeviceSettingModel{},
		&holidayModel.HolidayModel{},
		&attendanceModel.AttendanceModel{},

		&examModel.ExamModel{},
		&resultModel.ExamResultModel{},
		&promotionModel.StudentPromotionModel{},

		&settingModel.SettingModel{},
		&activityModel.ActivityLogModel{},
	}
}
