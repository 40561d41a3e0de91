package core

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"vibefinder/internal/types"
)

// ValidationError describes one failed field rule. Field is the JSON name.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult collects the failures of one struct.
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid reports whether no rule failed.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Validator wraps go-playground/validator with the request DTO rules:
//
//   - not_blank: the string holds at least one non-space character.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator and registers the custom tags. Field
// names in errors come from the json tag.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("not_blank", validateNotBlank); err != nil {
		// Only reachable with an invalid tag name.
		panic(fmt.Sprintf("register not_blank: %v", err))
	}

	return &Validator{validate: v, logger: logger}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateStruct runs the rules on s. Failures come back as an AppError
// whose code is that of the first failing field, with every failure listed
// under details.validation_errors.
func (v *Validator) ValidateStruct(s any) error {
	result := v.Check(s)
	if result.IsValid() {
		return nil
	}

	first := result.Errors[0]
	return types.NewAppErrorWithDetails(
		types.ErrorCode(first.Code),
		first.Message,
		nil,
		map[string]any{"validation_errors": result.Errors},
	)
}

// Check runs the rules on s and returns every failure.
func (v *Validator) Check(s any) ValidationResult {
	err := v.validate.Struct(s)
	if err == nil {
		return ValidationResult{}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.logger.Error("validator misuse", "error", err, "type", fmt.Sprintf("%T", s))
		return ValidationResult{Errors: []ValidationError{{
			Code:    string(types.ErrCodeValidationFailed),
			Message: "request could not be validated",
		}}}
	}

	result := ValidationResult{Errors: make([]ValidationError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, toValidationError(fe))
	}
	return result
}

func toValidationError(fe validator.FieldError) ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "not_blank":
		return ValidationError{
			Field:   field,
			Code:    string(types.ErrCodeValidationMissingField),
			Message: fmt.Sprintf("%s is required", field),
		}
	case "max":
		return ValidationError{
			Field:   field,
			Code:    string(types.ErrCodeValidationFailed),
			Message: fmt.Sprintf("%s must be at most %s characters", field, fe.Param()),
		}
	case "gte", "lte", "min":
		return ValidationError{
			Field:   field,
			Code:    string(types.ErrCodeValidationFailed),
			Message: fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param()),
		}
	default:
		return ValidationError{
			Field:   field,
			Code:    string(types.ErrCodeValidationFailed),
			Message: fmt.Sprintf("%s is invalid", field),
		}
	}
}
