// file: internals/helpers/auth/locals.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ============================================
   Locals Keys (AuthJWT sets these)
   ============================================ */

const (
	LocUserID    = "user_id"    // string UUID
	LocRoles     = "roles"      // []string
	LocJwtClaims = "jwt_claims" // jwt.MapClaims
)

// GetUserIDFromToken returns the authenticated user's id, or 401.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	switch v := c.Locals(LocUserID).(type) {
	case uuid.UUID:
		if v != uuid.Nil {
			return v, nil
		}
	case string:
		if id, err := uuid.Parse(strings.TrimSpace(v)); err == nil && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
}

// OptionalUserID is uuid.Nil for anonymous requests (cron, webhooks).
func OptionalUserID(c *fiber.Ctx) *uuid.UUID {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	return &id
}

// GetRoles returns the lower-cased role slugs from the token.
func GetRoles(c *fiber.Ctx) []string {
	return readStringSlice(c.Locals(LocRoles))
}

func HasRole(c *fiber.Ctx, roles ...string) bool {
	mine := GetRoles(c)
	for _, want := range roles {
		want = strings.ToLower(strings.TrimSpace(want))
		for _, r := range mine {
			if r == want {
				return true
			}
		}
	}
	return false
}

func readStringSlice(v any) []string {
	out := make([]string, 0)
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
