// internals/helpers/pagination.go
package helper

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1

	PerPageDefault = 20
	PerPageLogs    = 50
)

type Params struct {
	Page    int
	PerPage int
}

// ParsePage reads ?page= and applies the resource's fixed page size.
func ParsePage(c *fiber.Ctx, perPage int) Params {
	page := atoiDefault(strings.TrimSpace(c.Query("page")), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = PerPageDefault
	}
	return Params{Page: page, PerPage: perPage}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Limit & Offset
func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// Scope applies LIMIT/OFFSET to a gorm query.
func (p Params) Scope(db *gorm.DB) *gorm.DB {
	return db.Limit(p.Limit()).Offset(p.Offset())
}

// Meta untuk response
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	NextPage   *int  `json:"next_page,omitempty"`
	PrevPage   *int  `json:"prev_page,omitempty"`
}

func BuildMeta(total int64, p Params) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.PerPage)))
	}
	meta := Meta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    p.Page > 1,
		HasNext:    totalPages > 0 && p.Page < totalPages,
	}
	if meta.HasPrev {
		prev := p.Page - 1
		meta.PrevPage = &prev
	}
	if meta.HasNext {
		next := p.Page + 1
		meta.NextPage = &next
	}
	return meta
}

// Page is the result of a filtered list query.
type Page[T any] struct {
	Items []T
	Meta  Meta
}

// Paginate counts the filtered query, then loads one page ordered by
// `order`. Extra scopes (preloads) apply to the page query only. A page
// past the end yields an empty, non-nil slice.
func Paginate[T any](q *gorm.DB, p Params, order string, extra ...func(*gorm.DB) *gorm.DB) (Page[T], error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page[T]{}, err
	}
	items := make([]T, 0, p.PerPage)
	if total > int64(p.Offset()) {
		if err := q.Session(&gorm.Session{}).Scopes(extra...).Order(order).Scopes(p.Scope).Find(&items).Error; err != nil {
			return Page[T]{}, err
		}
	}
	return Page[T]{Items: items, Meta: BuildMeta(total, p)}, nil
}
