package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopdb-api/internal/application/dto"
	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/pkg/logger"
	"github.com/jhoicas/shopdb-api/pkg/validator"
)

// errorMapping pairs a domain sentinel with its HTTP status and code.
type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the first sentinel the error wraps wins.
var errorMappings = []errorMapping{
	{domain.ErrMissingIdentity, fiber.StatusBadRequest, "MISSING_USER"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrProductNotFound, fiber.StatusBadRequest, "PRODUCT_NOT_FOUND"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidProductData, fiber.StatusBadRequest, "INVALID_PRODUCT_DATA"},
	{domain.ErrInvalidRequest, fiber.StatusBadRequest, "INVALID_REQUEST"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicate, fiber.StatusBadRequest, "DUPLICATE"},
	{domain.ErrUsernameTaken, fiber.StatusBadRequest, "USERNAME_TAKEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrStorage, fiber.StatusInternalServerError, "STORAGE_ERROR"},
}

// statusFor returns the status and code for err. Unknown errors are internal.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// writeError renders err as dto.ErrorResponse. Server-side failures never
// expose driver messages.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	switch {
	case code == "STORAGE_ERROR":
		msg = "Database error"
	case status >= fiber.StatusInternalServerError:
		msg = "Internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

func invalidBody(c *fiber.Ctx) error {
	return badRequest(c, "INVALID_BODY", "invalid request body")
}

// validate runs the struct tags of in and writes the 400 when any fails.
// It returns false when the response has been written.
func validate(c *fiber.Ctx, in interface{}) (bool, error) {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return false, badRequest(c, "VALIDATION", validator.Message(errs))
	}
	return true, nil
}

// ErrorHandler is the fiber.Config ErrorHandler: fiber errors keep their
// status, everything else goes through the domain mapping.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: fe.Message})
		}
		if status, _ := statusFor(err); status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}
		return writeError(c, err)
	}
}
