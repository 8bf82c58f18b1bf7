package serverutils

import (
	"errors"

	"ai-editor-be/pkg/assist"
	"ai-editor-be/pkg/editor"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorHandlerMiddleware turns errors bubbled out of controllers into the
// JSON envelope. Domain sentinels map to their HTTP status here so services
// never deal in status codes.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, gorm.ErrRecordNotFound):
			code = fiber.StatusNotFound
			message = "Resource not found"
		case errors.Is(err, assist.ErrEmptySelection):
			code = fiber.StatusBadRequest
			message = err.Error()
		case errors.Is(err, assist.ErrOperationActive):
			code = fiber.StatusConflict
			message = err.Error()
		case errors.Is(err, assist.ErrStaleEdit):
			code = fiber.StatusConflict
			message = err.Error()
		case errors.Is(err, editor.ErrInvalidRange), errors.Is(err, editor.ErrRangeOutOfBounds):
			code = fiber.StatusBadRequest
			message = err.Error()
		default:
			message = err.Error()
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
