package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jaekwang-park/todo-tracker/internal/http/handler"
	"github.com/jaekwang-park/todo-tracker/internal/model"
	"github.com/jaekwang-park/todo-tracker/internal/repository"
	"github.com/jaekwang-park/todo-tracker/internal/service"
)

var baseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *service.TodoStore {
	t.Helper()
	var clock, ids atomic.Int64
	return service.NewTodoStore(context.Background(), repository.NewMemoryStorage(), service.StoreConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now: func() time.Time {
			return baseTime.Add(time.Duration(clock.Add(1)) * time.Minute)
		},
		NewID: func() string {
			return fmt.Sprintf("00000000-0000-4000-8000-%012d", ids.Add(1))
		},
	})
}

func addTodo(t *testing.T, store *service.TodoStore, title, category string) model.Todo {
	t.Helper()
	todo, err := store.Add(context.Background(), service.AddInput{Title: title, Category: category})
	if err != nil {
		t.Fatalf("Add(%q): %v", title, err)
	}
	return todo
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[handler.ErrorResponse](t, w).Error.Code
}
