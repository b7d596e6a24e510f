package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error returned by this package wraps exactly one of them.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNoCouple        = errors.New("no couple")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// User-facing messages shown by the app.
const (
	msgNoCouple      = "Bạn cần thiết lập cặp đôi trước khi thêm chi tiêu"
	msgForbidden     = "Bạn không có quyền chỉnh sửa chi tiêu này"
	msgNotFound      = "Không tìm thấy chi tiêu"
	msgConflict      = "Chi tiêu đã được cập nhật bởi người khác, vui lòng tải lại"
	msgCoupleMissing = "Không tìm thấy cặp đôi"
)

// Error is a classified failure with a message safe to show to the user.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match the kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) *Error {
	return newError(ErrValidation, format, args...)
}
