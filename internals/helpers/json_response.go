// file: internals/helpers/json_response.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Error helpers (standard shape)
=================================*/

type ErrorResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

func statusToErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}

// JsonError: error generic (not validation)
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = GenericErrorMessage
	}
	return c.Status(status).JSON(ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: statusToErrorCode(status),
	})
}

// JsonValidationError: field-keyed validation errors (422)
func JsonValidationError(c *fiber.Ctx, fieldErrors map[string][]string) error {
	if fieldErrors == nil {
		fieldErrors = map[string][]string{}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Success:   false,
		Message:   "validation failed",
		ErrorCode: "VALIDATION_ERROR",
		Errors:    fieldErrors,
	})
}

/* ===============================
   JSON responses (standard success)
=================================*/

// JsonList: paginated list
func JsonList(c *fiber.Ctx, message string, data any, meta Meta) error {
	return JsonListEx(c, message, data, meta, nil)
}

// JsonListEx: list + includes (totals, lookups)
func JsonListEx(c *fiber.Ctx, message string, data any, meta Meta, includes any) error {
	if strings.TrimSpace(message) == "" {
		message = "ok"
	}
	body := fiber.Map{
		"success":    true,
		"message":    message,
		"data":       data,
		"pagination": meta,
	}
	if includes != nil {
		body["includes"] = includes
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

func JsonOK(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusOK, message, "ok", data)
}

func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusCreated, message, "created", data)
}

func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusOK, message, "updated", data)
}

func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	return jsonSuccess(c, fiber.StatusOK, message, "deleted", data)
}

func jsonSuccess(c *fiber.Ctx, status int, message, fallback string, data any) error {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}
