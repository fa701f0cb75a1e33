package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeLayoutError, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeForbidden, http.StatusForbidden},
		{CodeTerminalState, http.StatusGone},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := New(tt.code, "x").HTTPStatus(); got != tt.want {
			t.Errorf("%s -> %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestFrom(t *testing.T) {
	appErr := Validation("参数错误")
	if got := From(appErr); got.Code != CodeValidation {
		t.Errorf("From(业务错误).Code = %q", got.Code)
	}

	// 包装过的业务错误也能提取
	wrapped := fmt.Errorf("外层: %w", NotFound("不存在"))
	if got := From(wrapped); got.Code != CodeNotFound {
		t.Errorf("From(包装错误).Code = %q", got.Code)
	}

	// 普通错误统一按INTERNAL处理
	if got := From(errors.New("boom")); got.Code != CodeInternal {
		t.Errorf("From(普通错误).Code = %q", got.Code)
	}
}

func TestIs(t *testing.T) {
	err := Conflict("冲突")
	if !Is(err, CodeConflict) {
		t.Error("Is应命中同码业务错误")
	}
	if Is(err, CodeNotFound) {
		t.Error("Is不应命中异码")
	}
	if Is(errors.New("boom"), CodeInternal) {
		t.Error("Is不应命中普通错误")
	}
}
