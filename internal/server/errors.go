package server

import (
	"errors"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"ltd_tracker/internal/domain"
)

// httpError переводит доменную ошибку в ответ reply.Error.
type httpError struct {
	status      int
	code        failure.ErrorCode
	description string
	fields      map[string]string
	cause       error
}

func (e *httpError) Error() string                  { return e.cause.Error() }
func (e *httpError) Unwrap() error                  { return e.cause }
func (e *httpError) HTTPStatus() int                { return e.status }
func (e *httpError) ErrorCode() failure.ErrorCode   { return e.code }
func (e *httpError) Description() string            { return e.description }
func (e *httpError) FieldErrors() map[string]string { return e.fields }

func toHTTPError(err error) error {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return &httpError{
			status:      http.StatusBadRequest,
			code:        validationErr.Code(),
			description: "Deal validation failed",
			fields:      validationErr.Fields,
			cause:       err,
		}
	case errors.As(err, &notFoundErr):
		return &httpError{
			status:      http.StatusNotFound,
			code:        notFoundErr.Code(),
			description: notFoundErr.Error(),
			cause:       err,
		}
	}

	// Прочие доменные ошибки (хранилище, очередь) отдаём как 500 со своим кодом.
	if code, ok := domain.GetCode(err); ok {
		return &httpError{
			status:      http.StatusInternalServerError,
			code:        code,
			description: "Internal error",
			cause:       err,
		}
	}

	return err
}
