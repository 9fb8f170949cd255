// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	helperAuth "schoolms_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Secret string
	// DB, when set, rejects tokens of users deactivated after login.
	DB                  *gorm.DB
	AllowCookieFallback bool // use the access_token cookie when there is no Bearer header
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		// 1) Token: Authorization: Bearer xxx (or cookie if allowed)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Parse + verify algorithm (exp checked by MapClaims.Valid)
		claims := jwt.MapClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		uidStr, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(strings.TrimSpace(uidStr))
		if err != nil || userID == uuid.Nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		if o.DB != nil {
			if err := ensureUserActive(o.DB.WithContext(c.Context()), userID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
				}
				if errors.Is(err, errInactive) {
					return fiber.NewError(fiber.StatusForbidden, "Your account has been deactivated")
				}
				log.WithError(err).Error("auth: user lookup failed")
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
		}

		c.Locals(helperAuth.LocJwtClaims, claims)
		c.Locals(helperAuth.LocUserID, userID.String())
		c.Locals(helperAuth.LocRoles, claims["roles"])
		return c.Next()
	}
}

var errInactive = errors.New("user inactive")

func ensureUserActive(db *gorm.DB, userID uuid.UUID) error {
	var status string
	res := db.Table("users").Select("status").Where("id = ?", userID).Limit(1).Scan(&status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	if status != "active" {
		return errInactive
	}
	return nil
}
