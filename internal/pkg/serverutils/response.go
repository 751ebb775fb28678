package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into a
// fiber 400 with a readable field list.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
			}
			return fiber.NewError(fiber.StatusBadRequest, "Validation failed: "+strings.Join(fields, ", "))
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorHandlerMiddleware converts returned errors into the standard JSON
// envelope. fiber.Error keeps its status code, everything else is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		return ctx.Status(code).JSON(ErrorResponse(err.Error()))
	}
}
