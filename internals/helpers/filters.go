package helper

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Every filter here is a no-op when its input is empty: an absent query
// parameter never turns into a NULL match.

// WhereSearch matches needle as a case-insensitive substring against any of cols.
func WhereSearch(db *gorm.DB, needle string, cols ...string) *gorm.DB {
	needle = strings.TrimSpace(needle)
	if needle == "" || len(cols) == 0 {
		return db
	}
	like := "%" + strings.ToLower(needle) + "%"
	parts := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		parts = append(parts, "LOWER("+col+") LIKE ?")
		args = append(args, like)
	}
	return db.Where("("+strings.Join(parts, " OR ")+")", args...)
}

func WhereEq(db *gorm.DB, col string, val string) *gorm.DB {
	val = strings.TrimSpace(val)
	if val == "" {
		return db
	}
	return db.Where(col+" = ?", val)
}

func WhereUUID(db *gorm.DB, col string, id *uuid.UUID) *gorm.DB {
	if id == nil || *id == uuid.Nil {
		return db
	}
	return db.Where(col+" = ?", *id)
}

// WhereDateRange is inclusive on both ends; `to` covers the whole day.
func WhereDateRange(db *gorm.DB, col string, from, to *time.Time) *gorm.DB {
	if from != nil {
		db = db.Where(col+" >= ?", DateOnly(*from))
	}
	if to != nil {
		db = db.Where(col+" < ?", DateOnly(*to).AddDate(0, 0, 1))
	}
	return db
}

// QueryUUID parses an optional uuid query parameter.
func QueryUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, NewValidationError(key, key+" must be a valid UUID")
	}
	return &id, nil
}

// QueryDate parses an optional YYYY-MM-DD query parameter.
func QueryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := ParseDate(raw)
	if err != nil {
		return nil, NewValidationError(key, key+" must be a date in YYYY-MM-DD format")
	}
	return &d, nil
}

// QueryDateRange reads ?from=&to= and rejects an inverted range.
func QueryDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = QueryDate(c, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = QueryDate(c, "to"); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, NewValidationError("to", "to must not be before from")
	}
	return from, to, nil
}

// ParamUUID parses a uuid path parameter.
func ParamUUID(c *fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(key)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+key)
	}
	return id, nil
}
