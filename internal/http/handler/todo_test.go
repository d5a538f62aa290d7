package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jaekwang-park/todo-tracker/internal/http/handler"
	"github.com/jaekwang-park/todo-tracker/internal/model"
)

type listBody struct {
	Todos []model.Todo     `json:"todos"`
	Sort  model.SortOption `json:"sort"`
}

func listTitles(todos []model.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.Title
	}
	return out
}

func TestTodoHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantCode     string
		wantCategory string
	}{
		{
			name:         "success",
			body:         `{"title":"Buy groceries","description":"Milk","category":"Home"}`,
			wantStatus:   http.StatusCreated,
			wantCategory: "home",
		},
		{
			name:         "default category",
			body:         `{"title":"Buy groceries"}`,
			wantStatus:   http.StatusCreated,
			wantCategory: "general",
		},
		{
			name:       "empty title",
			body:       `{"title":"   ","description":"Milk"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "invalid json",
			body:       `{invalid`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewTodoHandler(newStore(t))

			w := serve(h, http.MethodPost, "/api/v1/todos", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantCode != "" {
				if got := errorCode(t, w); got != tt.wantCode {
					t.Errorf("expected code=%s, got %s", tt.wantCode, got)
				}
				return
			}
			todo := decodeBody[model.Todo](t, w)
			if todo.Title != "Buy groceries" || todo.Category != tt.wantCategory {
				t.Errorf("unexpected todo: %+v", todo)
			}
			if todo.Status != model.TodoStatusInProgress || todo.ID == "" {
				t.Errorf("unexpected todo: %+v", todo)
			}
		})
	}
}

func TestTodoHandler_List(t *testing.T) {
	store := newStore(t)
	addTodo(t, store, "Charlie", "work")
	alpha := addTodo(t, store, "Alpha", "home")
	addTodo(t, store, "Beta", "work")
	if _, err := store.UpdateStatus(context.Background(), alpha.ID, model.TodoStatusCompleted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	h := handler.NewTodoHandler(store)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		want       []string
		wantSort   model.SortOption
	}{
		{"all newest first", "/api/v1/todos", http.StatusOK, []string{"Beta", "Alpha", "Charlie"}, model.SortCreatedNewest},
		{"sort override", "/api/v1/todos?sort=title", http.StatusOK, []string{"Alpha", "Beta", "Charlie"}, model.SortTitle},
		{"by status", "/api/v1/todos?status=in-progress&sort=title", http.StatusOK, []string{"Beta", "Charlie"}, model.SortTitle},
		{"by category", "/api/v1/todos?category=WORK", http.StatusOK, []string{"Beta", "Charlie"}, model.SortCreatedNewest},
		{"search", "/api/v1/todos?q=ALP", http.StatusOK, []string{"Alpha"}, model.SortCreatedNewest},
		{"search and category", "/api/v1/todos?q=a&category=work&sort=created-oldest", http.StatusOK, []string{"Charlie", "Beta"}, model.SortCreatedOldest},
		{"bad status", "/api/v1/todos?status=pending", http.StatusBadRequest, nil, ""},
		{"bad sort", "/api/v1/todos?sort=priority", http.StatusBadRequest, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, http.MethodGet, tt.path, "")

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			body := decodeBody[listBody](t, w)
			if got := listTitles(body.Todos); !equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if body.Sort != tt.wantSort {
				t.Errorf("sort: got %q, want %q", body.Sort, tt.wantSort)
			}
		})
	}

	if store.SortOption() != model.SortCreatedNewest {
		t.Errorf("sort override must not change the configured sort")
	}
}

func TestTodoHandler_ListEmpty(t *testing.T) {
	w := serve(handler.NewTodoHandler(newStore(t)), http.MethodGet, "/api/v1/todos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != "{\"todos\":[],\"sort\":\"created-newest\"}\n" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestTodoHandler_Item(t *testing.T) {
	store := newStore(t)
	todo := addTodo(t, store, "Buy groceries", "home")
	h := handler.NewTodoHandler(store)
	path := "/api/v1/todos/" + todo.ID

	t.Run("get", func(t *testing.T) {
		w := serve(h, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if got := decodeBody[model.Todo](t, w); got.ID != todo.ID {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("get unknown", func(t *testing.T) {
		w := serve(h, http.MethodGet, "/api/v1/todos/missing", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "NOT_FOUND" {
			t.Errorf("expected NOT_FOUND, got %s", code)
		}
	})

	t.Run("edit", func(t *testing.T) {
		w := serve(h, http.MethodPut, path, `{"title":"Buy milk","category":" Errands "}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
		}
		got := decodeBody[model.Todo](t, w)
		if got.Title != "Buy milk" || got.Category != "errands" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("edit blank title", func(t *testing.T) {
		w := serve(h, http.MethodPut, path, `{"title":""}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("update status", func(t *testing.T) {
		w := serve(h, http.MethodPatch, path+"/status", `{"status":"completed"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
		}
		got := decodeBody[model.Todo](t, w)
		if got.Status != model.TodoStatusCompleted || got.CompletedAt == nil {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("update status invalid", func(t *testing.T) {
		w := serve(h, http.MethodPatch, path+"/status", `{"status":"done"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("status wrong method", func(t *testing.T) {
		w := serve(h, http.MethodPost, path+"/status", `{"status":"completed"}`)
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", w.Code)
		}
	})

	t.Run("unknown sub-resource", func(t *testing.T) {
		w := serve(h, http.MethodGet, path+"/tags", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		w := serve(h, http.MethodDelete, path, "")
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
		if w := serve(h, http.MethodDelete, path, ""); w.Code != http.StatusNotFound {
			t.Errorf("second delete: expected 404, got %d", w.Code)
		}
	})
}

func TestTodoHandler_MethodNotAllowed(t *testing.T) {
	h := handler.NewTodoHandler(newStore(t))
	for _, tc := range []struct{ method, path string }{
		{http.MethodDelete, "/api/v1/todos"},
		{http.MethodPatch, "/api/v1/todos"},
		{http.MethodPost, "/api/v1/todos/some-id"},
	} {
		if w := serve(h, tc.method, tc.path, ""); w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
