package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolms_backend/internals/databases/testdb"
	"schoolms_backend/internals/features/library/book_issues/model"
	"schoolms_backend/internals/features/library/book_issues/service"
	bookModel "schoolms_backend/internals/features/library/books/model"
	studentModel "schoolms_backend/internals/features/school/students/model"
	teacherModel "schoolms_backend/internals/features/school/teachers/model"
	userModel "schoolms_backend/internals/features/users/users/model"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/mail"
)

func date(s string) time.Time {
	d, _ := helper.ParseDate(s)
	return d
}

func newUser(t *testing.T, db *gorm.DB, name, email string) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{Name: name, Email: email, Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func newStudent(t *testing.T, db *gorm.DB, email string) studentModel.StudentModel {
	t.Helper()
	u := newUser(t, db, "Rina", email)
	s := studentModel.StudentModel{StudentUserID: u.ID, StudentAdmissionNo: "ADM-" + uuid.NewString()[:6], StudentAdmissionDate: date("2023-07-01")}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func newTeacher(t *testing.T, db *gorm.DB, email string) teacherModel.TeacherModel {
	t.Helper()
	u := newUser(t, db, "Budi", email)
	tc := teacherModel.TeacherModel{TeacherUserID: u.ID, TeacherEmployeeID: "T-" + uuid.NewString()[:6], TeacherJoiningDate: date("2020-01-06")}
	require.NoError(t, db.Create(&tc).Error)
	return tc
}

func newBook(t *testing.T, db *gorm.DB, copies int) bookModel.BookModel {
	t.Helper()
	b := bookModel.BookModel{BookTitle: "Laskar Pelangi", BookAuthor: "Andrea Hirata", BookTotalCopies: copies, BookAvailable: copies}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func reload(t *testing.T, db *gorm.DB, id uuid.UUID) bookModel.BookModel {
	t.Helper()
	var b bookModel.BookModel
	require.NoError(t, db.First(&b, "book_id = ?", id).Error)
	return b
}

func TestIssueTakesLastCopyThenRejects(t *testing.T) {
	db := testdb.Open(t)
	book := newBook(t, db, 1)
	st := newStudent(t, db, "rina@school.local")

	in := service.NewIssue{BookID: book.BookID, BorrowerType: model.BorrowerStudent, BorrowerID: st.StudentID, IssueDate: date("2024-03-01"), DueDate: date("2024-03-08")}
	issue, borrower, err := service.Issue(db, in)
	require.NoError(t, err)
	assert.Equal(t, st.StudentID, borrower.ID())
	assert.Equal(t, model.IssueStatusIssued, issue.BookIssueStatus)

	got := reload(t, db, book.BookID)
	assert.Equal(t, 0, got.BookAvailable)
	assert.Equal(t, bookModel.BookStatusUnavailable, got.BookStatus)

	_, _, err = service.Issue(db, in)
	var be *helper.BusinessError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 400, be.Status)
}

func TestIssueRejectsUnknownBorrower(t *testing.T) {
	db := testdb.Open(t)
	book := newBook(t, db, 2)

	_, _, err := service.Issue(db, service.NewIssue{BookID: book.BookID, BorrowerType: model.BorrowerTeacher, BorrowerID: uuid.New(), IssueDate: date("2024-03-01"), DueDate: date("2024-03-08")})
	var ve *helper.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "book_issue_borrower_id")
	assert.Equal(t, 2, reload(t, db, book.BookID).BookAvailable)
}

func TestReturnStoresFineAndPutsCopyBack(t *testing.T) {
	db := testdb.Open(t)
	book := newBook(t, db, 1)
	tc := newTeacher(t, db, "budi@school.local")

	issue, _, err := service.Issue(db, service.NewIssue{BookID: book.BookID, BorrowerType: model.BorrowerTeacher, BorrowerID: tc.TeacherID, IssueDate: date("2024-03-01"), DueDate: date("2024-03-08")})
	require.NoError(t, err)

	_, err = service.Return(db, issue.BookIssueID, date("2024-02-20"), 5)
	var ve *helper.ValidationError
	require.ErrorAs(t, err, &ve)

	ret, err := service.Return(db, issue.BookIssueID, date("2024-03-11"), 5)
	require.NoError(t, err)
	assert.Equal(t, model.IssueStatusReturned, ret.BookIssueStatus)
	assert.Equal(t, int64(15), ret.BookIssueFine)

	got := reload(t, db, book.BookID)
	assert.Equal(t, 1, got.BookAvailable)
	assert.Equal(t, bookModel.BookStatusAvailable, got.BookStatus)

	_, err = service.Return(db, issue.BookIssueID, date("2024-03-12"), 5)
	assert.Error(t, err)
}

func TestReleaseBorrower(t *testing.T) {
	db := testdb.Open(t)
	book := newBook(t, db, 2)
	st := newStudent(t, db, "rina@school.local")
	_, _, err := service.Issue(db, service.NewIssue{BookID: book.BookID, BorrowerType: model.BorrowerStudent, BorrowerID: st.StudentID, IssueDate: date("2024-03-01"), DueDate: date("2024-03-08")})
	require.NoError(t, err)

	require.NoError(t, service.ReleaseBorrower(db, model.BorrowerStudent, st.StudentID))
	assert.Equal(t, 2, reload(t, db, book.BookID).BookAvailable)

	var n int64
	require.NoError(t, db.Model(&model.BookIssueModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestOverdueCount(t *testing.T) {
	db := testdb.Open(t)
	book := newBook(t, db, 3)
	st := newStudent(t, db, "rina@school.local")
	for _, due := range []string{"2024-03-05", "2024-03-10", "2024-03-20"} {
		_, _, err := service.Issue(db, service.NewIssue{BookID: book.BookID, BorrowerType: model.BorrowerStudent, BorrowerID: st.StudentID, IssueDate: date("2024-03-01"), DueDate: date(due)})
		require.NoError(t, err)
	}

	n, err := service.CountOverdue(db, date("2024-03-10"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := service.Overdue(db, date("2024-03-15"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-03-05", helper.FormatDate(list[0].BookIssueDueDate))
	require.NotNil(t, list[0].Book)
}

type failingMailer struct{}

func (failingMailer) Send(context.Context, mail.Message) error { return errors.New("smtp down") }

func TestSendOverdueReminders(t *testing.T) {
	db := testdb.Open(t)
	book := newBook(t, db, 3)
	st := newStudent(t, db, "rina@school.local")
	tc := newTeacher(t, db, "budi@school.local")
	require.NoError(t, db.Model(&userModel.UserModel{}).Where("id = ?", tc.TeacherUserID).Update("email", " ").Error)

	for _, b := range []struct {
		kind model.BorrowerKind
		id   uuid.UUID
	}{{model.BorrowerStudent, st.StudentID}, {model.BorrowerTeacher, tc.TeacherID}} {
		_, _, err := service.Issue(db, service.NewIssue{BookID: book.BookID, BorrowerType: b.kind, BorrowerID: b.id, IssueDate: date("2024-03-01"), DueDate: date("2024-03-08")})
		require.NoError(t, err)
	}

	mailer := mail.NewConsoleMailer()
	res, err := service.SendOverdueReminders(context.Background(), db, mailer, date("2024-03-12"), 5, "SD Harapan")
	require.NoError(t, err)
	assert.Equal(t, service.ReminderResult{Overdue: 2, Sent: 1, Skipped: 1}, res)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "rina@school.local", sent[0].To[0].Email)
	assert.Contains(t, sent[0].Text, "4 day(s) overdue")
	assert.Contains(t, sent[0].Text, "The fine so far is 20")

	res, err = service.SendOverdueReminders(context.Background(), db, failingMailer{}, date("2024-03-12"), 5, "SD Harapan")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 0, res.Sent)
}
