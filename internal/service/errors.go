// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — файл не найден (нет записи или нет содержимого в хранилище).
	ErrNotFound = errors.New("файл не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrInternal — сбой хранилища метаданных или blob-хранилища.
	ErrInternal = errors.New("внутренняя ошибка")
	// ErrInconsistent — содержимое удалено, а запись метаданных нет.
	ErrInconsistent = errors.New("нарушена согласованность метаданных и хранилища")
)

// Error — ошибка сервисного слоя.
// Message безопасно отдавать клиенту; Err — исходная причина,
// она логируется и клиенту не передаётся.
type Error struct {
	// Kind — одна из ErrNotFound, ErrValidation, ErrInternal, ErrInconsistent
	Kind error
	// Message — сообщение для клиента
	Message string
	// Field — поле запроса, к которому относится ошибка валидации
	Field string
	// Err — причина (может быть nil)
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap позволяет errors.Is находить как Kind, так и причину.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func notFound(message string, cause error) *Error {
	return &Error{Kind: ErrNotFound, Message: message, Err: cause}
}

func validation(field, message string, cause error) *Error {
	return &Error{Kind: ErrValidation, Field: field, Message: message, Err: cause}
}

func internal(message string, cause error) *Error {
	return &Error{Kind: ErrInternal, Message: message, Err: cause}
}
