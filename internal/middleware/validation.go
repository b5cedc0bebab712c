package middleware

import (
	"studybuddy-ai/internal/domain"
	"studybuddy-ai/internal/dto"
	"studybuddy-ai/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedGenerateRequestKey is the fiber.Ctx locals key holding the parsed request.
const ValidatedGenerateRequestKey = "validated_generate_request"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	if v == nil {
		v = validation.NewValidator()
	}
	return &ValidationMiddleware{
		validator: v,
	}
}

// ValidateGenerateRequest parses a JSON generate request body and validates it
func (vm *ValidationMiddleware) ValidateGenerateRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.GenerateRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.ValidationErrors{
				domain.NewInvalidFormatError("body", err.Error()),
			}
		}

		if errors := vm.validator.ValidateGenerateRequest(&req); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedGenerateRequestKey, &req)
		return c.Next()
	}
}

// GenerateRequestFromCtx returns the request stored by ValidateGenerateRequest.
func GenerateRequestFromCtx(c *fiber.Ctx) (*dto.GenerateRequest, bool) {
	req, ok := c.Locals(ValidatedGenerateRequestKey).(*dto.GenerateRequest)
	return req, ok
}
