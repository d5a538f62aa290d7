package handler

import (
	"net/http"

	"github.com/jaekwang-park/todo-tracker/internal/model"
	"github.com/jaekwang-park/todo-tracker/internal/service"
)

type TodoHandler struct {
	store *service.TodoStore
}

func NewTodoHandler(store *service.TodoStore) *TodoHandler {
	return &TodoHandler{store: store}
}

// ServeHTTP routes /api/v1/todos, /api/v1/todos/{id} and /api/v1/todos/{id}/status.
func (h *TodoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	todoID, subPath := splitPath(r.URL.Path, "/api/v1/todos")

	switch {
	case todoID != "" && subPath == "status":
		if r.Method != http.MethodPatch {
			methodNotAllowed(w)
			return
		}
		h.handleUpdateStatus(w, r, todoID)
	case todoID != "" && subPath != "":
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	case todoID != "":
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, todoID)
		case http.MethodPut:
			h.handleEdit(w, r, todoID)
		case http.MethodDelete:
			h.handleDelete(w, r, todoID)
		default:
			methodNotAllowed(w)
		}
	default:
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			methodNotAllowed(w)
		}
	}
}

type listResponse struct {
	Todos []model.Todo     `json:"todos"`
	Sort  model.SortOption `json:"sort"`
}

// handleList serves the collection. q, status and category narrow the result
// and combine; sort overrides the configured order for this request only.
func (h *TodoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sortOption := h.store.SortOption()
	if s := query.Get("sort"); s != "" {
		opt, err := model.ParseSortOption(s)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "INVALID_SORT", err.Error())
			return
		}
		sortOption = opt
	}

	var status model.TodoStatus
	if s := query.Get("status"); s != "" {
		status = model.TodoStatus(s)
		if !status.IsValid() {
			WriteError(w, http.StatusBadRequest, "INVALID_STATUS", "status must be one of in-progress, completed, archived")
			return
		}
	}

	var todos []model.Todo
	switch {
	case query.Get("q") != "":
		todos = h.store.Search(query.Get("q"))
	case status != "":
		todos = h.store.ByStatus(status)
	default:
		todos = h.store.All()
	}

	category := query.Get("category")
	filtered := todos[:0]
	for _, t := range todos {
		if status != "" && t.Status != status {
			continue
		}
		if category != "" && !sameCategory(t.Category, category) {
			continue
		}
		filtered = append(filtered, t)
	}

	WriteJSON(w, http.StatusOK, listResponse{
		Todos: service.SortTodos(filtered, sortOption),
		Sort:  sortOption,
	})
}

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *TodoHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := h.store.Add(r.Context(), service.AddInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) handleGet(w http.ResponseWriter, r *http.Request, todoID string) {
	todo, err := h.store.Get(todoID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

type editTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

func (h *TodoHandler) handleEdit(w http.ResponseWriter, r *http.Request, todoID string) {
	var req editTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := h.store.Edit(r.Context(), todoID, service.EditInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleDelete(w http.ResponseWriter, r *http.Request, todoID string) {
	if err := h.store.Delete(r.Context(), todoID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *TodoHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request, todoID string) {
	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := h.store.UpdateStatus(r.Context(), todoID, model.TodoStatus(req.Status))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}
