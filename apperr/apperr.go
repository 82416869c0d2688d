package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a failure class that callers can branch on.
type Code string

const (
	NotFound           Code = "not_found"
	Unauthenticated    Code = "unauthenticated"
	InvalidVariant     Code = "invalid_variant"
	OutOfStock         Code = "out_of_stock"
	InvalidPromoCode   Code = "invalid_promo_code"
	OrderCommitFailed  Code = "order_commit_failed"
	BackendUnavailable Code = "backend_unavailable"
	EmailInUse         Code = "email_in_use"
	WeakPassword       Code = "weak_password"
	InvalidEmail       Code = "invalid_email"
	Unknown            Code = "unknown"
)

type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Code)
	}
	return e.Msg
}

func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf returns the failure class of err, or Unknown for untyped errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Unknown
}

func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// HTTPStatus maps a failure class onto the status the JSON envelope is sent with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case NotFound:
		return http.StatusNotFound
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidVariant, WeakPassword, InvalidEmail, InvalidPromoCode:
		return http.StatusBadRequest
	case OutOfStock, EmailInUse:
		return http.StatusConflict
	case OrderCommitFailed, BackendUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
