package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	resultService "schoolms_backend/internals/features/academics/results/service"
	attendanceModel "schoolms_backend/internals/features/attendance/attendances/model"
	attendanceService "schoolms_backend/internals/features/attendance/attendances/service"
	feeModel "schoolms_backend/internals/features/finance/fee_collections/model"
	feeService "schoolms_backend/internals/features/finance/fee_collections/service"
	issueService "schoolms_backend/internals/features/library/book_issues/service"
	bookModel "schoolms_backend/internals/features/library/books/model"
	classModel "schoolms_backend/internals/features/school/classes/model"
	studentModel "schoolms_backend/internals/features/school/students/model"
	teacherModel "schoolms_backend/internals/features/school/teachers/model"
	staffModel "schoolms_backend/internals/features/staff/staff/model"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/people"
)

const latestResults = 3

type Counts struct {
	Students int64 `json:"students"`
	Teachers int64 `json:"teachers"`
	Staff    int64 `json:"staff"`
	Classes  int64 `json:"classes"`
	Books    int64 `json:"books"`
}

type AdminBoard struct {
	Counts          Counts                  `json:"counts"`
	FeesThisMonth   feeService.Summary      `json:"fees_this_month"`
	OverdueIssues   int64                   `json:"overdue_issues"`
	TodayAttendance attendanceModel.Summary `json:"today_attendance"`
}

type ClassToday struct {
	ClassID    uuid.UUID               `json:"class_id"`
	ClassName  string                  `json:"class_name"`
	Section    string                  `json:"class_section"`
	Students   int64                   `json:"students"`
	Attendance attendanceModel.Summary `json:"attendance"`
}

type TeacherBoard struct {
	TeacherID uuid.UUID    `json:"teacher_id"`
	Date      string       `json:"date"`
	Classes   []ClassToday `json:"classes"`
}

type StudentBoard struct {
	Student       people.Person              `json:"student"`
	Attendance    attendanceModel.Summary    `json:"attendance"`
	LatestResults []resultService.ReportCard `json:"latest_results"`
	Fees          feeService.Summary         `json:"fees"`
}

type ParentBoard struct {
	Children []StudentBoard `json:"children"`
}

// Admin aggregates school-wide numbers for today and the current month.
func Admin(db *gorm.DB, today time.Time) (AdminBoard, error) {
	var b AdminBoard
	counts := []struct {
		dst   *int64
		model any
		where string
		arg   any
	}{
		{&b.Counts.Students, &studentModel.StudentModel{}, "student_status = ?", studentModel.StudentStatusActive},
		{&b.Counts.Teachers, &teacherModel.TeacherModel{}, "teacher_status = ?", teacherModel.TeacherStatusActive},
		{&b.Counts.Staff, &staffModel.StaffModel{}, "staff_status = ?", staffModel.StaffStatusActive},
		{&b.Counts.Classes, &classModel.ClassModel{}, "", nil},
		{&b.Counts.Books, &bookModel.BookModel{}, "", nil},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.arg)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return b, errors.Wrap(err, "dashboard counts")
		}
	}

	start, end := helper.MonthRange(today.Year(), today.Month())
	fees, err := feeService.Summarize(db.Model(&feeModel.FeeCollectionModel{}).
		Where("fee_collection_created_at >= ? AND fee_collection_created_at < ?", start, end))
	if err != nil {
		return b, err
	}
	b.FeesThisMonth = fees

	if b.OverdueIssues, err = issueService.CountOverdue(db, today); err != nil {
		return b, err
	}
	if b.TodayAttendance, err = dayTotals(db, people.Student, nil, today); err != nil {
		return b, err
	}
	return b, nil
}

// Teacher lists the classes the teacher is class teacher of, with today's
// student attendance. ok is false when the user has no teacher record.
func Teacher(db *gorm.DB, userID uuid.UUID, today time.Time) (board TeacherBoard, ok bool, err error) {
	var t teacherModel.TeacherModel
	if err = db.Where("teacher_user_id = ?", userID).Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return board, false, nil
		}
		return board, false, errors.Wrap(err, "load teacher")
	}

	var classes []classModel.ClassModel
	if err = db.Where("class_teacher_id = ?", t.TeacherID).Order("class_name, class_section").Find(&classes).Error; err != nil {
		return board, true, errors.Wrap(err, "load classes")
	}

	board = TeacherBoard{TeacherID: t.TeacherID, Date: helper.FormatDate(today), Classes: make([]ClassToday, 0, len(classes))}
	for _, cl := range classes {
		ids, err := activeStudentIDs(db, cl.ClassID)
		if err != nil {
			return board, true, err
		}
		sum, err := dayTotals(db, people.Student, ids, today)
		if err != nil {
			return board, true, err
		}
		board.Classes = append(board.Classes, ClassToday{
			ClassID:    cl.ClassID,
			ClassName:  cl.ClassName,
			Section:    cl.ClassSection,
			Students:   int64(len(ids)),
			Attendance: sum,
		})
	}
	return board, true, nil
}

// Student builds one student's board: attendance for the current month,
// the latest report cards and the outstanding fee totals.
func Student(db *gorm.DB, studentID uuid.UUID, today time.Time) (StudentBoard, bool, error) {
	p, ok, err := people.Find(db, people.Student, studentID)
	if err != nil || !ok {
		return StudentBoard{}, ok, err
	}
	b := StudentBoard{Student: p}

	start, end := helper.MonthRange(today.Year(), today.Month())
	last := end.AddDate(0, 0, -1)
	if b.Attendance, err = attendanceService.SummaryOf(db, people.Student, studentID, &start, &last); err != nil {
		return b, true, err
	}
	if b.LatestResults, err = resultService.LatestCards(db, studentID, latestResults); err != nil {
		return b, true, err
	}
	if b.Fees, err = feeService.Summarize(db.Model(&feeModel.FeeCollectionModel{}).
		Where("fee_collection_student_id = ?", studentID)); err != nil {
		return b, true, err
	}
	return b, true, nil
}

// StudentByUser resolves the student record owned by userID.
func StudentByUser(db *gorm.DB, userID uuid.UUID, today time.Time) (StudentBoard, bool, error) {
	var ids []uuid.UUID
	err := db.Model(&studentModel.StudentModel{}).
		Where("student_user_id = ?", userID).Limit(1).Pluck("student_id", &ids).Error
	if err != nil {
		return StudentBoard{}, false, errors.Wrap(err, "load student")
	}
	if len(ids) == 0 {
		return StudentBoard{}, false, nil
	}
	return Student(db, ids[0], today)
}

// Parent builds a board per child linked through student_parent_user_id.
func Parent(db *gorm.DB, userID uuid.UUID, today time.Time) (ParentBoard, error) {
	var ids []uuid.UUID
	if err := db.Model(&studentModel.StudentModel{}).
		Where("student_parent_user_id = ?", userID).
		Order("student_admission_no").
		Pluck("student_id", &ids).Error; err != nil {
		return ParentBoard{}, errors.Wrap(err, "load children")
	}
	out := ParentBoard{Children: make([]StudentBoard, 0, len(ids))}
	for _, id := range ids {
		b, ok, err := Student(db, id, today)
		if err != nil {
			return out, err
		}
		if ok {
			out.Children = append(out.Children, b)
		}
	}
	return out, nil
}

func activeStudentIDs(db *gorm.DB, classID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	err := db.Model(&studentModel.StudentModel{}).
		Where("student_class_id = ? AND student_status = ?", classID, studentModel.StudentStatusActive).
		Pluck("student_id", &ids).Error
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, errors.Wrap(err, "load class students")
}

// dayTotals counts one day's records by status. A nil ids slice means every
// attendee of the kind; an empty one means nobody.
func dayTotals(db *gorm.DB, kind people.Kind, ids []uuid.UUID, day time.Time) (attendanceModel.Summary, error) {
	var sum attendanceModel.Summary
	if ids != nil && len(ids) == 0 {
		return sum, nil
	}
	q := db.Model(&attendanceModel.AttendanceModel{}).
		Select("attendance_status AS status, COUNT(*) AS n").
		Where("attendance_attendee_type = ? AND attendance_date = ?", kind, helper.DateOnly(day)).
		Group("attendance_status")
	if ids != nil {
		q = q.Where("attendance_attendee_id IN ?", ids)
	}
	var rows []struct {
		Status attendanceModel.AttendanceStatus
		N      int64
	}
	if err := q.Scan(&rows).Error; err != nil {
		return sum, errors.Wrap(err, "count attendance")
	}
	for _, r := range rows {
		sum.Add(r.Status, r.N)
	}
	sum.Finish()
	return sum, nil
}
