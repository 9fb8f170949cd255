package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/library/book_issues/model"
	"schoolms_backend/internals/features/library/book_issues/service"
	helper "schoolms_backend/internals/helpers"
)

type CreateIssueRequest struct {
	BookIssueBookID       uuid.UUID `json:"book_issue_book_id" validate:"required"`
	BookIssueBorrowerType string    `json:"book_issue_borrower_type" validate:"required,oneof=student teacher"`
	BookIssueBorrowerID   uuid.UUID `json:"book_issue_borrower_id" validate:"required"`
	BookIssueIssueDate    string    `json:"book_issue_issue_date" validate:"required,dateonly"`
	BookIssueDueDate      string    `json:"book_issue_due_date" validate:"required,dateonly"`
	BookIssueRemarks      *string   `json:"book_issue_remarks" validate:"omitempty,max=500"`
}

func (r *CreateIssueRequest) Normalize() {
	r.BookIssueBorrowerType = strings.ToLower(strings.TrimSpace(r.BookIssueBorrowerType))
	r.BookIssueIssueDate = strings.TrimSpace(r.BookIssueIssueDate)
	r.BookIssueDueDate = strings.TrimSpace(r.BookIssueDueDate)
}

// ToNewIssue also checks due_date >= issue_date.
func (r CreateIssueRequest) ToNewIssue() (service.NewIssue, error) {
	issued, _ := helper.ParseDate(r.BookIssueIssueDate)
	due, _ := helper.ParseDate(r.BookIssueDueDate)
	if due.Before(issued) {
		return service.NewIssue{}, helper.NewValidationError("book_issue_due_date",
			"The due date must be a date after or equal to the issue date.")
	}
	return service.NewIssue{
		BookID:       r.BookIssueBookID,
		BorrowerType: model.BorrowerKind(r.BookIssueBorrowerType),
		BorrowerID:   r.BookIssueBorrowerID,
		IssueDate:    issued,
		DueDate:      due,
		Remarks:      r.BookIssueRemarks,
	}, nil
}

type ReturnRequest struct {
	ReturnDate string `json:"return_date" validate:"omitempty,dateonly"`
}

func (r ReturnRequest) DateOrToday() time.Time {
	if d, err := helper.ParseDate(strings.TrimSpace(r.ReturnDate)); err == nil {
		return d
	}
	return helper.Today()
}

type BookBrief struct {
	BookID     uuid.UUID `json:"book_id"`
	BookTitle  string    `json:"book_title"`
	BookAuthor string    `json:"book_author"`
	BookISBN   *string   `json:"book_isbn,omitempty"`
}

// BorrowerResponse is the wire form of the borrower union.
type BorrowerResponse struct {
	Type  string    `json:"type"`
	ID    uuid.UUID `json:"id"`
	Code  string    `json:"code"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

type IssueResponse struct {
	BookIssueID           uuid.UUID         `json:"book_issue_id"`
	BookIssueBookID       uuid.UUID         `json:"book_issue_book_id"`
	Book                  *BookBrief        `json:"book,omitempty"`
	BookIssueBorrowerType string            `json:"book_issue_borrower_type"`
	BookIssueBorrowerID   uuid.UUID         `json:"book_issue_borrower_id"`
	Borrower              *BorrowerResponse `json:"borrower,omitempty"`
	BookIssueIssueDate    string            `json:"book_issue_issue_date"`
	BookIssueDueDate      string            `json:"book_issue_due_date"`
	BookIssueReturnDate   *string           `json:"book_issue_return_date,omitempty"`
	BookIssueStatus       string            `json:"book_issue_status"`
	BookIssueFine         int64             `json:"book_issue_fine"`
	BookIssueRemarks      *string           `json:"book_issue_remarks,omitempty"`
	IsOverdue             bool              `json:"is_overdue"`
	DaysOverdue           int               `json:"days_overdue"`
	FineEstimate          int64             `json:"fine_estimate"`
	BookIssueCreatedAt    time.Time         `json:"book_issue_created_at"`
}

// Derive carries what the derived fields depend on.
type Derive struct {
	Today      time.Time
	FinePerDay int64
}

func toBorrower(b model.Borrower) *BorrowerResponse {
	if b.ID() == uuid.Nil {
		return nil
	}
	return &BorrowerResponse{Type: string(b.Kind), ID: b.ID(), Code: b.Code(), Name: b.Name(), Email: b.Email()}
}

func FromModel(m model.BookIssueModel, borrower *model.Borrower, d Derive) IssueResponse {
	resp := IssueResponse{
		BookIssueID:           m.BookIssueID,
		BookIssueBookID:       m.BookIssueBookID,
		BookIssueBorrowerType: string(m.BookIssueBorrowerType),
		BookIssueBorrowerID:   m.BookIssueBorrowerID,
		BookIssueIssueDate:    helper.FormatDate(m.BookIssueIssueDate),
		BookIssueDueDate:      helper.FormatDate(m.BookIssueDueDate),
		BookIssueReturnDate:   helper.FormatDatePtr(m.BookIssueReturnDate),
		BookIssueStatus:       string(m.BookIssueStatus),
		BookIssueFine:         m.BookIssueFine,
		BookIssueRemarks:      m.BookIssueRemarks,
		IsOverdue:             m.IsOverdue(d.Today),
		DaysOverdue:           m.DaysOverdue(d.Today),
		FineEstimate:          m.FineEstimate(d.Today, d.FinePerDay),
		BookIssueCreatedAt:    m.BookIssueCreatedAt,
	}
	if b := m.Book; b != nil {
		resp.Book = &BookBrief{BookID: b.BookID, BookTitle: b.BookTitle, BookAuthor: b.BookAuthor, BookISBN: b.BookISBN}
	}
	if borrower != nil {
		resp.Borrower = toBorrower(*borrower)
	}
	return resp
}

func FromModels(list []model.BookIssueModel, borrowers map[model.BorrowerKey]model.Borrower, d Derive) []IssueResponse {
	out := make([]IssueResponse, 0, len(list))
	for _, m := range list {
		var bp *model.Borrower
		if b, ok := borrowers[model.BorrowerKey{Kind: m.BookIssueBorrowerType, ID: m.BookIssueBorrowerID}]; ok {
			bp = &b
		}
		out = append(out, FromModel(m, bp, d))
	}
	return out
}
