package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookModel "schoolms_backend/internals/features/library/books/model"
	helper "schoolms_backend/internals/helpers"
)

type IssueStatus string

const (
	IssueStatusIssued   IssueStatus = "issued"
	IssueStatusReturned IssueStatus = "returned"
)

type BookIssueModel struct {
	BookIssueID uuid.UUID `gorm:"column:book_issue_id;type:uuid;primaryKey" json:"book_issue_id"`

	BookIssueBookID uuid.UUID            `gorm:"column:book_issue_book_id;type:uuid;not null;index:idx_book_issues_book" json:"book_issue_book_id"`
	Book            *bookModel.BookModel `gorm:"foreignKey:BookIssueBookID;references:BookID" json:"-"`

	BookIssueBorrowerType BorrowerKind `gorm:"column:book_issue_borrower_type;type:varchar(20);not null;index:idx_book_issues_borrower,priority:1" json:"book_issue_borrower_type"`
	BookIssueBorrowerID   uuid.UUID    `gorm:"column:book_issue_borrower_id;type:uuid;not null;index:idx_book_issues_borrower,priority:2" json:"book_issue_borrower_id"`

	BookIssueIssueDate  time.Time   `gorm:"column:book_issue_issue_date;type:date;not null;index:idx_book_issues_issue_date" json:"book_issue_issue_date"`
	BookIssueDueDate    time.Time   `gorm:"column:book_issue_due_date;type:date;not null;index:idx_book_issues_due_date" json:"book_issue_due_date"`
	BookIssueReturnDate *time.Time  `gorm:"column:book_issue_return_date;type:date" json:"book_issue_return_date,omitempty"`
	BookIssueStatus     IssueStatus `gorm:"column:book_issue_status;type:varchar(20);not null;default:'issued';index:idx_book_issues_status" json:"book_issue_status"`
	BookIssueFine       int64       `gorm:"column:book_issue_fine;not null;default:0" json:"book_issue_fine"`
	BookIssueRemarks    *string     `gorm:"column:book_issue_remarks;type:text" json:"book_issue_remarks,omitempty"`

	BookIssueCreatedAt time.Time `gorm:"column:book_issue_created_at;autoCreateTime" json:"book_issue_created_at"`
	BookIssueUpdatedAt time.Time `gorm:"column:book_issue_updated_at;autoUpdateTime" json:"book_issue_updated_at"`
}

func (BookIssueModel) TableName() string { return "book_issues" }

func (m *BookIssueModel) BeforeCreate(tx *gorm.DB) error {
	if m.BookIssueID == uuid.Nil {
		m.BookIssueID = uuid.New()
	}
	return nil
}

// DaysOverdue counts days past the due date: up to the return date for a
// returned issue, up to today otherwise. Never negative.
func (m BookIssueModel) DaysOverdue(today time.Time) int {
	end := today
	if m.BookIssueStatus == IssueStatusReturned && m.BookIssueReturnDate != nil {
		end = *m.BookIssueReturnDate
	}
	if d := helper.DaysBetween(m.BookIssueDueDate, end); d > 0 {
		return d
	}
	return 0
}

// IsOverdue: still issued and the due date has passed.
func (m BookIssueModel) IsOverdue(today time.Time) bool {
	return m.BookIssueStatus == IssueStatusIssued && helper.DateOnly(m.BookIssueDueDate).Before(helper.DateOnly(today))
}

// FineEstimate is the stored fine once returned, otherwise days overdue
// times the per-day rate.
func (m BookIssueModel) FineEstimate(today time.Time, perDay int64) int64 {
	if m.BookIssueStatus == IssueStatusReturned {
		return m.BookIssueFine
	}
	return int64(m.DaysOverdue(today)) * perDay
}
