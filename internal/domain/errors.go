package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"ltd_tracker/internal/domain/value"
	"ltd_tracker/pkg/errcodes"
)

// AppError представляет инфраструктурную ошибку приложения (хранилище,
// очередь и т.п.).
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// ValidationError возвращается, когда входные данные сделки не прошли
// проверку. Fields: имя поля -> сообщение для пользователя.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Err возвращает nil, если ошибок не накопилось.
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Code() failure.ErrorCode {
	return errcodes.InvalidDeal
}

// NotFoundError возвращается мутаторами, если сделки с таким ID нет.
type NotFoundError struct {
	ID value.DealID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("deal %s not found", e.ID)
}

func (e *NotFoundError) Code() failure.ErrorCode {
	return errcodes.DealNotFound
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsNotFoundError(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// GetCode извлекает код ошибки из любой доменной ошибки.
func GetCode(err error) (failure.ErrorCode, bool) {
	var (
		appErr        *AppError
		validationErr *ValidationError
		notFoundErr   *NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Code(), true
	case errors.As(err, &notFoundErr):
		return notFoundErr.Code(), true
	case errors.As(err, &appErr):
		return appErr.Code, true
	}

	return "", false
}
