package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/library/books/model"
)

type CreateBookRequest struct {
	BookTitle         string  `json:"book_title" validate:"required,max=255"`
	BookAuthor        string  `json:"book_author" validate:"required,max=255"`
	BookISBN          *string `json:"book_isbn" validate:"omitempty,max=20"`
	BookCategory      *string `json:"book_category" validate:"omitempty,max=100"`
	BookPublisher     *string `json:"book_publisher" validate:"omitempty,max=255"`
	BookPublishedYear *int    `json:"book_published_year" validate:"omitempty,min=1000,max=9999"`
	BookShelf         *string `json:"book_shelf" validate:"omitempty,max=50"`
	BookTotalCopies   int     `json:"book_total_copies" validate:"required,min=1,max=100000"`
}

func (r *CreateBookRequest) Normalize() {
	r.BookTitle = strings.TrimSpace(r.BookTitle)
	r.BookAuthor = strings.TrimSpace(r.BookAuthor)
	r.BookISBN = normISBN(r.BookISBN)
	r.BookCategory = trimPtr(r.BookCategory)
}

func (r CreateBookRequest) ToModel() model.BookModel {
	m := model.BookModel{
		BookTitle:         r.BookTitle,
		BookAuthor:        r.BookAuthor,
		BookISBN:          r.BookISBN,
		BookCategory:      r.BookCategory,
		BookPublisher:     r.BookPublisher,
		BookPublishedYear: r.BookPublishedYear,
		BookShelf:         r.BookShelf,
		BookTotalCopies:   r.BookTotalCopies,
		BookAvailable:     r.BookTotalCopies,
	}
	m.RecomputeStatus()
	return m
}

type UpdateBookRequest struct {
	BookTitle         *string `json:"book_title" validate:"omitempty,min=1,max=255"`
	BookAuthor        *string `json:"book_author" validate:"omitempty,min=1,max=255"`
	BookISBN          *string `json:"book_isbn" validate:"omitempty,max=20"`
	BookCategory      *string `json:"book_category" validate:"omitempty,max=100"`
	BookPublisher     *string `json:"book_publisher" validate:"omitempty,max=255"`
	BookPublishedYear *int    `json:"book_published_year" validate:"omitempty,min=1000,max=9999"`
	BookShelf         *string `json:"book_shelf" validate:"omitempty,max=50"`
	BookTotalCopies   *int    `json:"book_total_copies" validate:"omitempty,min=1,max=100000"`
}

func (r *UpdateBookRequest) Normalize() {
	r.BookTitle = trimPtr(r.BookTitle)
	r.BookAuthor = trimPtr(r.BookAuthor)
	r.BookCategory = trimPtr(r.BookCategory)
	if r.BookISBN != nil {
		if n := normISBN(r.BookISBN); n != nil {
			r.BookISBN = n
		} else {
			empty := ""
			r.BookISBN = &empty
		}
	}
}

// ApplyToModel leaves copy counters to the caller (see SetTotalCopies).
func (r UpdateBookRequest) ApplyToModel(m *model.BookModel) {
	if r.BookTitle != nil {
		m.BookTitle = *r.BookTitle
	}
	if r.BookAuthor != nil {
		m.BookAuthor = *r.BookAuthor
	}
	if r.BookISBN != nil {
		if *r.BookISBN == "" {
			m.BookISBN = nil
		} else {
			m.BookISBN = r.BookISBN
		}
	}
	if r.BookCategory != nil {
		m.BookCategory = r.BookCategory
	}
	if r.BookPublisher != nil {
		m.BookPublisher = r.BookPublisher
	}
	if r.BookPublishedYear != nil {
		m.BookPublishedYear = r.BookPublishedYear
	}
	if r.BookShelf != nil {
		m.BookShelf = r.BookShelf
	}
}

// normISBN strips spaces and hyphens; blank becomes nil.
func normISBN(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(*s))
	if v == "" {
		return nil
	}
	v = strings.ToUpper(v)
	return &v
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

type BookResponse struct {
	BookID            uuid.UUID `json:"book_id"`
	BookTitle         string    `json:"book_title"`
	BookAuthor        string    `json:"book_author"`
	BookISBN          *string   `json:"book_isbn,omitempty"`
	BookCategory      *string   `json:"book_category,omitempty"`
	BookPublisher     *string   `json:"book_publisher,omitempty"`
	BookPublishedYear *int      `json:"book_published_year,omitempty"`
	BookShelf         *string   `json:"book_shelf,omitempty"`
	BookTotalCopies   int       `json:"book_total_copies"`
	BookAvailable     int       `json:"book_available_copies"`
	BookIssued        int       `json:"book_issued_copies"`
	BookStatus        string    `json:"book_status"`
	BookCreatedAt     time.Time `json:"book_created_at"`
	BookUpdatedAt     time.Time `json:"book_updated_at"`
}

func FromModel(m model.BookModel) BookResponse {
	return BookResponse{
		BookID:            m.BookID,
		BookTitle:         m.BookTitle,
		BookAuthor:        m.BookAuthor,
		BookISBN:          m.BookISBN,
		BookCategory:      m.BookCategory,
		BookPublisher:     m.BookPublisher,
		BookPublishedYear: m.BookPublishedYear,
		BookShelf:         m.BookShelf,
		BookTotalCopies:   m.BookTotalCopies,
		BookAvailable:     m.BookAvailable,
		BookIssued:        m.Issued(),
		BookStatus:        string(m.BookStatus),
		BookCreatedAt:     m.BookCreatedAt,
		BookUpdatedAt:     m.BookUpdatedAt,
	}
}

func FromModels(list []model.BookModel) []BookResponse {
	out := make([]BookResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
