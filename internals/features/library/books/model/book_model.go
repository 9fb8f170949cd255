package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookStatus string

const (
	BookStatusAvailable   BookStatus = "available"
	BookStatusUnavailable BookStatus = "unavailable"
)

// BookModel tracks copies as two counters; issued = total - available.
type BookModel struct {
	BookID            uuid.UUID  `gorm:"column:book_id;type:uuid;primaryKey" json:"book_id"`
	BookTitle         string     `gorm:"column:book_title;type:varchar(255);not null" json:"book_title"`
	BookAuthor        string     `gorm:"column:book_author;type:varchar(255);not null" json:"book_author"`
	BookISBN          *string    `gorm:"column:book_isbn;type:varchar(20);uniqueIndex:uq_books_isbn" json:"book_isbn,omitempty"`
	BookCategory      *string    `gorm:"column:book_category;type:varchar(100);index:idx_books_category" json:"book_category,omitempty"`
	BookPublisher     *string    `gorm:"column:book_publisher;type:varchar(255)" json:"book_publisher,omitempty"`
	BookPublishedYear *int       `gorm:"column:book_published_year" json:"book_published_year,omitempty"`
	BookShelf         *string    `gorm:"column:book_shelf;type:varchar(50)" json:"book_shelf,omitempty"`
	BookTotalCopies   int        `gorm:"column:book_total_copies;not null" json:"book_total_copies"`
	BookAvailable     int        `gorm:"column:book_available_copies;not null" json:"book_available_copies"`
	BookStatus        BookStatus `gorm:"column:book_status;type:varchar(20);not null;default:'available';index:idx_books_status" json:"book_status"`

	BookCreatedAt time.Time `gorm:"column:book_created_at;autoCreateTime" json:"book_created_at"`
	BookUpdatedAt time.Time `gorm:"column:book_updated_at;autoUpdateTime" json:"book_updated_at"`
}

func (BookModel) TableName() string { return "books" }

func (m *BookModel) BeforeCreate(tx *gorm.DB) error {
	if m.BookID == uuid.Nil {
		m.BookID = uuid.New()
	}
	m.RecomputeStatus()
	return nil
}

func (m BookModel) Issued() int { return m.BookTotalCopies - m.BookAvailable }

func (m *BookModel) RecomputeStatus() {
	if m.BookAvailable > 0 {
		m.BookStatus = BookStatusAvailable
	} else {
		m.BookStatus = BookStatusUnavailable
	}
}

// SetTotalCopies keeps the issued count constant. It reports false when
// total would drop below the copies currently out.
func (m *BookModel) SetTotalCopies(total int) bool {
	issued := m.Issued()
	if total < issued {
		return false
	}
	m.BookTotalCopies = total
	m.BookAvailable = total - issued
	m.RecomputeStatus()
	return true
}

// StatusCase is the SQL expression that recomputes book_status from an
// available-copies expression, for use inside UPDATE statements.
func StatusCase(availableExpr string) string {
	return "CASE WHEN " + availableExpr + " > 0 THEN '" + string(BookStatusAvailable) +
		"' ELSE '" + string(BookStatusUnavailable) + "' END"
}
