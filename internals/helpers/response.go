package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RespondError maps a service error onto the JSON error envelope.
// Unexpected errors are returned as-is so the app ErrorHandler logs and
// reports them and answers with a generic message.
func RespondError(c *fiber.Ctx, err error) error {
	var (
		ve *ValidationError
		be *BusinessError
		nf *NotFoundError
		fe *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		return JsonValidationError(c, ve.Fields)
	case errors.As(err, &be):
		return JsonError(c, be.Status, be.Message)
	case errors.As(err, &nf):
		return JsonError(c, fiber.StatusNotFound, nf.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return JsonError(c, fiber.StatusNotFound, "Data not found")
	case errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError:
		return JsonError(c, fe.Code, fe.Message)
	}
	return err
}

// BadPayload is the response for bodies that cannot be decoded at all.
func BadPayload(c *fiber.Ctx) error {
	return JsonError(c, fiber.StatusBadRequest, "Invalid payload")
}
