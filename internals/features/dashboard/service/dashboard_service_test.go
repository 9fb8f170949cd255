package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolms_backend/internals/databases/testdb"
	attendanceModel "schoolms_backend/internals/features/attendance/attendances/model"
	attendanceService "schoolms_backend/internals/features/attendance/attendances/service"
	"schoolms_backend/internals/features/dashboard/service"
	classModel "schoolms_backend/internals/features/school/classes/model"
	studentModel "schoolms_backend/internals/features/school/students/model"
	teacherModel "schoolms_backend/internals/features/school/teachers/model"
	userModel "schoolms_backend/internals/features/users/users/model"
	"schoolms_backend/internals/services/people"
)

var today = time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)

type school struct {
	db       *gorm.DB
	teacher  teacherModel.TeacherModel
	parent   userModel.UserModel
	class    classModel.ClassModel
	empty    classModel.ClassModel
	students []studentModel.StudentModel
}

func newUser(t *testing.T, db *gorm.DB, name string) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{Name: name, Email: name + "@school.local", Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func setup(t *testing.T) school {
	t.Helper()
	db := testdb.Open(t)
	s := school{db: db, parent: newUser(t, db, "parent")}

	s.teacher = teacherModel.TeacherModel{TeacherUserID: newUser(t, db, "teacher").ID, TeacherEmployeeID: "T-1", TeacherJoiningDate: today}
	require.NoError(t, db.Create(&s.teacher).Error)

	s.class = classModel.ClassModel{ClassName: "Grade 7", ClassSection: "A", ClassTeacherID: &s.teacher.TeacherID}
	s.empty = classModel.ClassModel{ClassName: "Grade 7", ClassSection: "B", ClassTeacherID: &s.teacher.TeacherID}
	require.NoError(t, db.Create(&s.class).Error)
	require.NoError(t, db.Create(&s.empty).Error)

	statuses := []studentModel.StudentStatus{studentModel.StudentStatusActive, studentModel.StudentStatusGraduated}
	for i, st := range statuses {
		m := studentModel.StudentModel{
			StudentUserID:        newUser(t, db, fmt.Sprintf("student%d", i)).ID,
			StudentAdmissionNo:   fmt.Sprintf("ADM-%d", i),
			StudentClassID:       &s.class.ClassID,
			StudentAdmissionDate: today,
			StudentStatus:        st,
		}
		if i == 0 {
			m.StudentParentUserID = &s.parent.ID
		}
		require.NoError(t, db.Create(&m).Error)
		s.students = append(s.students, m)
	}

	mark := func(id uuid.UUID, day time.Time, status attendanceModel.AttendanceStatus) attendanceModel.AttendanceModel {
		return attendanceModel.AttendanceModel{
			AttendanceAttendeeType: people.Student,
			AttendanceAttendeeID:   id,
			AttendanceDate:         day,
			AttendanceStatus:       status,
			AttendanceSource:       attendanceModel.SourceManual,
		}
	}
	require.NoError(t, attendanceService.Upsert(db, []attendanceModel.AttendanceModel{
		mark(s.students[0].StudentID, today, attendanceModel.StatusPresent),
		mark(s.students[1].StudentID, today, attendanceModel.StatusLate),
		mark(s.students[0].StudentID, today.AddDate(0, 0, 1), attendanceModel.StatusAbsent),
	}))
	return s
}

func TestAdminBoard(t *testing.T) {
	s := setup(t)
	b, err := service.Admin(s.db, today)
	require.NoError(t, err)

	assert.Equal(t, service.Counts{Students: 2, Teachers: 1, Classes: 2}, b.Counts)
	assert.Zero(t, b.OverdueIssues)
	assert.Equal(t, int64(2), b.TodayAttendance.Total)
	assert.Equal(t, int64(1), b.TodayAttendance.Late)
	assert.Equal(t, 100, b.TodayAttendance.Percentage)
}

func TestTeacherBoard(t *testing.T) {
	s := setup(t)
	b, ok, err := service.Teacher(s.db, s.teacher.TeacherUserID, today)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, b.Classes, 2)

	assert.Equal(t, "2024-09-02", b.Date)
	assert.Equal(t, "A", b.Classes[0].Section)
	assert.Equal(t, int64(2), b.Classes[0].Students)
	assert.Equal(t, int64(2), b.Classes[0].Attendance.Total)

	assert.Equal(t, "B", b.Classes[1].Section)
	assert.Zero(t, b.Classes[1].Students)
	assert.Zero(t, b.Classes[1].Attendance.Total)

	_, ok, err = service.Teacher(s.db, s.parent.ID, today)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStudentAndParentBoards(t *testing.T) {
	s := setup(t)
	b, ok, err := service.StudentByUser(s.db, s.students[0].StudentUserID, today)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "student0", b.Student.Name)
	assert.Equal(t, int64(2), b.Attendance.Total)
	assert.Equal(t, 50, b.Attendance.Percentage)
	assert.Empty(t, b.LatestResults)

	_, ok, err = service.StudentByUser(s.db, s.parent.ID, today)
	require.NoError(t, err)
	assert.False(t, ok)

	p, err := service.Parent(s.db, s.parent.ID, today)
	require.NoError(t, err)
	require.Len(t, p.Children, 1)
	assert.Equal(t, s.students[0].StudentID, p.Children[0].Student.ID)
}
