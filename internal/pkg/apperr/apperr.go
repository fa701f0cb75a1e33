package apperr

import (
	"errors"
	"net/http"
)

// 稳定的机器可读错误码，接口返回时随响应体一起下发
const (
	CodeValidation    = "VALIDATION"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeForbidden     = "FORBIDDEN"
	CodeTerminalState = "TERMINAL_STATE"
	CodeLayoutError   = "LAYOUT_ERROR"
	CodeInternal      = "INTERNAL"
)

// Error 业务错误，Code 用于程序判断，Msg 用于展示
type Error struct {
	Code string
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func New(code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Validation(msg string) *Error {
	return New(CodeValidation, msg)
}

func NotFound(msg string) *Error {
	return New(CodeNotFound, msg)
}

func Conflict(msg string) *Error {
	return New(CodeConflict, msg)
}

func Forbidden(msg string) *Error {
	return New(CodeForbidden, msg)
}

func TerminalState(msg string) *Error {
	return New(CodeTerminalState, msg)
}

func LayoutError(msg string) *Error {
	return New(CodeLayoutError, msg)
}

func Internal(msg string) *Error {
	return New(CodeInternal, msg)
}

// From 从普通error中提取业务错误，非业务错误统一按INTERNAL处理
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err.Error())
}

// HTTPStatus 错误码到HTTP状态码的映射
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeLayoutError:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTerminalState:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// Is 判断错误是否为指定错误码的业务错误
func Is(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
