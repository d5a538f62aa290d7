package middleware_test

import (
	"net/http/httptest"
	"testing"

	"github.com/jaekwang-park/todo-tracker/internal/middleware"
)

func TestSetSubject(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	if got := middleware.Subject(req); got != "" {
		t.Errorf("expected empty, got %q", got)
	}

	req = req.WithContext(middleware.SetSubject(req.Context(), "owner-sub"))

	if got := middleware.Subject(req); got != "owner-sub" {
		t.Errorf("expected owner-sub, got %q", got)
	}
}
