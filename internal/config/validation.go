// Package config provides configuration management for the Slate Edge
// prediction service.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/slate-edge/internal/models"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("league", validateLeague)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateLeague(fl validator.FieldLevel) bool {
	_, err := models.ParseLeague(fl.Field().String())
	return err == nil
}

// validateCrossField checks constraints that span multiple fields
func validateCrossField(cfg *Config) error {
	for name, lc := range cfg.Leagues {
		if _, err := models.ParseLeague(name); err != nil {
			return fmt.Errorf("leagues: %w", err)
		}
		if lc.ClampLo > 0 && lc.ClampHi > 0 && lc.ClampLo >= lc.ClampHi {
			return fmt.Errorf("leagues.%s: clamp_lo must be below clamp_hi", name)
		}
	}

	if cfg.Providers.Odds.Enabled && cfg.Providers.Odds.BaseURL == "" {
		return fmt.Errorf("providers.odds: base_url is required when enabled")
	}
	if cfg.Providers.Stream.Enabled && cfg.Providers.Stream.URL == "" {
		return fmt.Errorf("providers.stream: url is required when enabled")
	}

	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(messages, "; "))
}
