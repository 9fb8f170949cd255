package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	log "github.com/sirupsen/logrus"

	helper "schoolms_backend/internals/helpers"
)

// ErrorHandler is the fiber.Config ErrorHandler: every error that escapes a
// handler or middleware ends up in the JSON error envelope. 5xx are logged
// and reported to Rollbar when it is configured.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := helper.GenericErrorMessage

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}

	if code >= fiber.StatusInternalServerError {
		log.WithFields(log.Fields{
			"request_id": c.Locals("reqid"),
			"method":     c.Method(),
			"path":       c.Path(),
		}).WithError(err).Error("request failed")
		if rollbar.Token() != "" {
			rollbar.Error(err, map[string]any{
				"request_id": c.Locals("reqid"),
				"path":       c.Path(),
			})
		}
	}
	return helper.JsonError(c, code, msg)
}
