package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error categories
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("resource conflict")
	ErrEmptyCart  = errors.New("cart is empty")
	ErrInternal   = errors.New("internal error")
)

// Error is a structured application error carrying an HTTP status code.
type Error struct {
	Err        error
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying category error so errors.Is works.
func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) *Error {
	return &Error{Err: ErrValidation, StatusCode: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Err: ErrNotFound, StatusCode: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Err: ErrConflict, StatusCode: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

// ProductNotFoundError reports an order item whose catalog product is gone.
// It keeps enough identity for the caller to drop exactly that item.
type ProductNotFoundError struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s (%s) no longer exists", e.ProductID, e.ProductName)
}

func (e *ProductNotFoundError) Unwrap() error {
	return ErrNotFound
}

// StatusCode maps an error to the HTTP status it should produce.
func StatusCode(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
