package validation

import (
	"errors"
	"reflect"
	"strings"

	"studybuddy-ai/internal/domain"
	"studybuddy-ai/internal/dto"

	"github.com/go-playground/validator/v10"
)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the "difficulty" rule registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDifficulty(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// ValidateGenerateRequest validates the generation request.
// The topic is deliberately unconstrained; an empty topic is sent to the provider as-is.
func (v *Validator) ValidateGenerateRequest(req *dto.GenerateRequest) domain.ValidationErrors {
	if req == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("body")}
	}
	return v.toValidationErrors(v.validate.Struct(req))
}

func (v *Validator) toValidationErrors(err error) domain.ValidationErrors {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}
	}

	var result domain.ValidationErrors
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "difficulty":
			result = append(result, domain.NewInvalidDifficultyFieldError(fe.Field(), fe.Value()))
		case "required":
			result = append(result, domain.NewMissingFieldError(fe.Field()))
		default:
			result = append(result, domain.NewInvalidFormatError(fe.Field(), fe.Value()))
		}
	}
	return result
}
