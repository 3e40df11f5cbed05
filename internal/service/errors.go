package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation         = errors.New("invalid input")       // 400
	ErrNotFound           = errors.New("not found")           // 400
	ErrConflict           = errors.New("already exists")      // 400
	ErrInvalidCredentials = errors.New("invalid credentials") // 400, generic text
	ErrForbidden          = errors.New("access denied")       // 403
	ErrStorage            = errors.New("storage unavailable") // 500
)

// storageErr classifies an error coming back from the repository.
// subject reads like "product 5" or "email ann@x.com".
func storageErr(err error, subject string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %w", subject, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s %w", subject, ErrConflict)
	default:
		return fmt.Errorf("%w: %s: %v", ErrStorage, subject, err)
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
