// Package validator plugs go-playground validation into Echo.
package validator

import (
	domainerrors "gatekeeper/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// CustomValidator satisfies echo.Validator using struct tags.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates the validator used by the HTTP server.
func New() *CustomValidator {
	return &CustomValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks the bound request payload against its validate tags.
// Failures surface as a 400 application error with the raw validator
// message in the details field.
func (v *CustomValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
