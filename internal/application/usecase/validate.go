package usecase

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/waste3d/coursehub/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// check runs struct tag validation and reports failures as ErrValidation.
func check(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
