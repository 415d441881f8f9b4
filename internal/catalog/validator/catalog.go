package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"eventbooking/pkg/logger"
	"eventbooking/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CatalogValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCatalogValidator(log *logger.Logger) *CatalogValidator {
	return &CatalogValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *CatalogValidator) ValidateCategory(category *model.Category) error {
	if err := v.validate.Struct(category); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *CatalogValidator) ValidateTimeWindow(window *model.TimeWindow) error {
	if err := v.validate.Struct(window); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	start, err := time.Parse(model.TimeLayout, window.StartTime)
	if err != nil {
		return ValidationErrors{{Field: "StartTime", Message: "StartTime must match the 15:04 format"}}
	}
	end, err := time.Parse(model.TimeLayout, window.EndTime)
	if err != nil {
		return ValidationErrors{{Field: "EndTime", Message: "EndTime must match the 15:04 format"}}
	}
	if !end.After(start) {
		return ValidationErrors{{Field: "EndTime", Message: "EndTime must be after StartTime"}}
	}

	return nil
}

func (v *CatalogValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must match the %s format", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
