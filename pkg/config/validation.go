package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Tag     string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	// Generate custom message based on tag
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "min":
		return fmt.Sprintf("%s is below its minimum", e.Field)
	case "max":
		return fmt.Sprintf("%s is above its maximum", e.Field)
	case "gt":
		return fmt.Sprintf("%s must be greater than its bound", e.Field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", e.Field)
	default:
		return fmt.Sprintf("%s failed validation", e.Field)
	}
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Validator provides configuration validation.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	return &Validator{validate: validator.New()}, nil
}

// ValidateConfig validates a configuration struct.
func (v *Validator) ValidateConfig(config *Config) error {
	// Check for nil config first
	if config == nil {
		return ValidationErrors{
			ValidationError{
				Field:   "config",
				Tag:     "required",
				Value:   nil,
				Message: "config is nil",
			},
		}
	}

	err := v.validate.Struct(config)
	if err == nil {
		// Perform additional custom validations if struct validation passes
		if customErrors := v.validateCustomRules(config); len(customErrors) > 0 {
			return customErrors
		}
		return nil
	}

	// Convert validator errors to our custom error format
	var validationErrors ValidationErrors
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			validationErrors = append(validationErrors, ValidationError{
				Field: fe.Namespace(),
				Tag:   fe.Tag(),
				Value: fe.Value(),
			})
		}
		return validationErrors
	}

	return err
}

// validateCustomRules applies rules the struct tags cannot express.
func (v *Validator) validateCustomRules(config *Config) ValidationErrors {
	var errs ValidationErrors

	if config.Scoring.Weights.Sum() <= 0 {
		errs = append(errs, ValidationError{
			Field:   "Config.Scoring.Weights",
			Tag:     "gt",
			Value:   config.Scoring.Weights.Sum(),
			Message: "scoring weights must have positive total mass",
		})
	}

	if config.Pareto.AxisX == config.Pareto.AxisY {
		errs = append(errs, ValidationError{
			Field:   "Config.Pareto",
			Tag:     "distinct",
			Value:   config.Pareto.AxisX,
			Message: "pareto axes must be two distinct objectives",
		})
	}

	return errs
}
