package repository

import (
	"errors"

	"github.com/waste3d/coursehub/internal/domain"

	"gorm.io/gorm"
)

// translate maps gorm errors onto domain sentinels. A write that references a
// missing row is reported as not found.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrNotFound
	default:
		return err
	}
}
