package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/library/book_issues/model"
	bookModel "schoolms_backend/internals/features/library/books/model"
	studentModel "schoolms_backend/internals/features/school/students/model"
	teacherModel "schoolms_backend/internals/features/school/teachers/model"
	settingModel "schoolms_backend/internals/features/settings/settings/model"
	settingService "schoolms_backend/internals/features/settings/settings/service"
	helper "schoolms_backend/internals/helpers"
)

// FinePerDay reads library.fine_per_day, falling back to def.
func FinePerDay(db *gorm.DB, def int64) int64 {
	return settingService.GetInt(db, settingModel.GroupLibrary, settingModel.KeyFinePerDay, def)
}

// ResolveBorrower loads a single borrower or returns a validation error on
// the borrower_id field.
func ResolveBorrower(db *gorm.DB, kind model.BorrowerKind, id uuid.UUID) (model.Borrower, error) {
	switch kind {
	case model.BorrowerStudent:
		var s studentModel.StudentModel
		err := db.Preload("User").Limit(1).Find(&s, "student_id = ?", id).Error
		if err != nil {
			return model.Borrower{}, errors.Wrap(err, "load student")
		}
		if s.StudentID == uuid.Nil {
			return model.Borrower{}, helper.NewValidationError("book_issue_borrower_id", "The selected student is invalid.")
		}
		return model.StudentBorrower(&s), nil
	case model.BorrowerTeacher:
		var t teacherModel.TeacherModel
		err := db.Preload("User").Limit(1).Find(&t, "teacher_id = ?", id).Error
		if err != nil {
			return model.Borrower{}, errors.Wrap(err, "load teacher")
		}
		if t.TeacherID == uuid.Nil {
			return model.Borrower{}, helper.NewValidationError("book_issue_borrower_id", "The selected teacher is invalid.")
		}
		return model.TeacherBorrower(&t), nil
	}
	return model.Borrower{}, helper.NewValidationError("book_issue_borrower_type", "The borrower type must be student or teacher.")
}

// ResolveBorrowers loads the borrowers of a page of issues with one query
// per kind.
func ResolveBorrowers(db *gorm.DB, issues []model.BookIssueModel) (map[model.BorrowerKey]model.Borrower, error) {
	var studentIDs, teacherIDs []uuid.UUID
	for _, is := range issues {
		switch is.BookIssueBorrowerType {
		case model.BorrowerStudent:
			studentIDs = append(studentIDs, is.BookIssueBorrowerID)
		case model.BorrowerTeacher:
			teacherIDs = append(teacherIDs, is.BookIssueBorrowerID)
		}
	}

	out := make(map[model.BorrowerKey]model.Borrower, len(issues))
	if len(studentIDs) > 0 {
		var list []studentModel.StudentModel
		if err := db.Preload("User").Where("student_id IN ?", studentIDs).Find(&list).Error; err != nil {
			return nil, errors.Wrap(err, "load students")
		}
		for i := range list {
			out[model.BorrowerKey{Kind: model.BorrowerStudent, ID: list[i].StudentID}] = model.StudentBorrower(&list[i])
		}
	}
	if len(teacherIDs) > 0 {
		var list []teacherModel.TeacherModel
		if err := db.Preload("User").Where("teacher_id IN ?", teacherIDs).Find(&list).Error; err != nil {
			return nil, errors.Wrap(err, "load teachers")
		}
		for i := range list {
			out[model.BorrowerKey{Kind: model.BorrowerTeacher, ID: list[i].TeacherID}] = model.TeacherBorrower(&list[i])
		}
	}
	return out, nil
}

// takeCopy decrements available copies only while one is left.
func takeCopy(tx *gorm.DB, bookID uuid.UUID) (bool, error) {
	res := tx.Model(&bookModel.BookModel{}).
		Where("book_id = ? AND book_available_copies > 0", bookID).
		Updates(map[string]any{
			"book_available_copies": gorm.Expr("book_available_copies - 1"),
			"book_status":           gorm.Expr(bookModel.StatusCase("book_available_copies - 1")),
		})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "take copy")
	}
	return res.RowsAffected == 1, nil
}

func putCopy(tx *gorm.DB, bookID uuid.UUID) error {
	res := tx.Model(&bookModel.BookModel{}).
		Where("book_id = ? AND book_available_copies < book_total_copies", bookID).
		Updates(map[string]any{
			"book_available_copies": gorm.Expr("book_available_copies + 1"),
			"book_status":           gorm.Expr(bookModel.StatusCase("book_available_copies + 1")),
		})
	return errors.Wrap(res.Error, "return copy")
}

// NewIssue is a validated issue request.
type NewIssue struct {
	BookID       uuid.UUID
	BorrowerType model.BorrowerKind
	BorrowerID   uuid.UUID
	IssueDate    time.Time
	DueDate      time.Time
	Remarks      *string
}

// Issue lends one copy. It fails with a rejection when no copy is left.
func Issue(tx *gorm.DB, in NewIssue) (*model.BookIssueModel, *model.Borrower, error) {
	var book bookModel.BookModel
	if err := tx.Limit(1).Find(&book, "book_id = ?", in.BookID).Error; err != nil {
		return nil, nil, errors.Wrap(err, "load book")
	}
	if book.BookID == uuid.Nil {
		return nil, nil, helper.NewValidationError("book_issue_book_id", "The selected book is invalid.")
	}
	borrower, err := ResolveBorrower(tx, in.BorrowerType, in.BorrowerID)
	if err != nil {
		return nil, nil, err
	}

	ok, err := takeCopy(tx, book.BookID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, helper.Rejected("No copies of %q are available", book.BookTitle)
	}

	m := model.BookIssueModel{
		BookIssueBookID:       book.BookID,
		BookIssueBorrowerType: in.BorrowerType,
		BookIssueBorrowerID:   in.BorrowerID,
		BookIssueIssueDate:    helper.DateOnly(in.IssueDate),
		BookIssueDueDate:      helper.DateOnly(in.DueDate),
		BookIssueStatus:       model.IssueStatusIssued,
		BookIssueRemarks:      in.Remarks,
	}
	if err := tx.Create(&m).Error; err != nil {
		return nil, nil, errors.Wrap(err, "create book issue")
	}
	if err := tx.First(&book, "book_id = ?", book.BookID).Error; err != nil {
		return nil, nil, errors.Wrap(err, "reload book")
	}
	m.Book = &book
	return &m, &borrower, nil
}

// Return closes an issue, stores the fine as of returnDate and puts the
// copy back.
func Return(tx *gorm.DB, issueID uuid.UUID, returnDate time.Time, perDay int64) (*model.BookIssueModel, error) {
	var m model.BookIssueModel
	if err := helper.ForUpdate(tx).First(&m, "book_issue_id = ?", issueID).Error; err != nil {
		return nil, err
	}
	if m.BookIssueStatus == model.IssueStatusReturned {
		return nil, helper.Rejected("This book has already been returned")
	}
	returnDate = helper.DateOnly(returnDate)
	if returnDate.Before(helper.DateOnly(m.BookIssueIssueDate)) {
		return nil, helper.NewValidationError("return_date", "The return date must be on or after the issue date.")
	}

	m.BookIssueStatus = model.IssueStatusReturned
	m.BookIssueReturnDate = &returnDate
	m.BookIssueFine = int64(m.DaysOverdue(returnDate)) * perDay
	if err := tx.Omit("Book").Save(&m).Error; err != nil {
		return nil, errors.Wrap(err, "return book issue")
	}
	if err := putCopy(tx, m.BookIssueBookID); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReleaseBorrower puts back every copy the borrower still holds and drops
// their issue rows. Called when the student or teacher is deleted.
func ReleaseBorrower(tx *gorm.DB, kind model.BorrowerKind, id uuid.UUID) error {
	var open []model.BookIssueModel
	err := tx.Where("book_issue_borrower_type = ? AND book_issue_borrower_id = ? AND book_issue_status = ?",
		kind, id, model.IssueStatusIssued).Find(&open).Error
	if err != nil {
		return errors.Wrap(err, "load open issues")
	}
	for _, is := range open {
		if err := putCopy(tx, is.BookIssueBookID); err != nil {
			return err
		}
	}
	err = tx.Where("book_issue_borrower_type = ? AND book_issue_borrower_id = ?", kind, id).
		Delete(&model.BookIssueModel{}).Error
	return errors.Wrap(err, "delete issues")
}

// Overdue lists every issue still out past its due date, oldest first.
func Overdue(db *gorm.DB, today time.Time) ([]model.BookIssueModel, error) {
	var list []model.BookIssueModel
	err := db.Preload("Book").
		Where("book_issue_status = ? AND book_issue_due_date < ?", model.IssueStatusIssued, helper.DateOnly(today)).
		Order("book_issue_due_date ASC").
		Find(&list).Error
	return list, errors.Wrap(err, "list overdue issues")
}

// CountOverdue backs the dashboard.
func CountOverdue(db *gorm.DB, today time.Time) (int64, error) {
	var n int64
	err := db.Model(&model.BookIssueModel{}).
		Where("book_issue_status = ? AND book_issue_due_date < ?", model.IssueStatusIssued, helper.DateOnly(today)).
		Count(&n).Error
	return n, errors.Wrap(err, "count overdue issues")
}
