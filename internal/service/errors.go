package service

import (
	"CaseKeeper/internal/repo"
	"errors"
	"fmt"
)

// ErrNotFound — запись или диагноз не найдены.
var ErrNotFound = repo.ErrNotFound

// ErrStorage — сбой чтения/записи хранилища. Оборачивает исходную ошибку драйвера.
var ErrStorage = errors.New("storage error")

// ValidationError — входные данные отклонены, операция не выполнялась.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation сообщает, что err — ошибка валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
