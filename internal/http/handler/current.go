package handler

import (
	"net/http"

	"github.com/jaekwang-park/todo-tracker/internal/model"
	"github.com/jaekwang-park/todo-tracker/internal/service"
)

// CurrentHandler serves the "currently doing" slot.
type CurrentHandler struct {
	store *service.TodoStore
}

func NewCurrentHandler(store *service.TodoStore) *CurrentHandler {
	return &CurrentHandler{store: store}
}

type currentResponse struct {
	Todo *model.Todo `json:"todo"`
}

type setCurrentRequest struct {
	ID string `json:"id"`
}

// ServeHTTP routes /api/v1/current, /api/v1/current/complete and /api/v1/current/archive.
func (h *CurrentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action, _ := splitPath(r.URL.Path, "/api/v1/current")

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.writeCurrent(w)
		case http.MethodPut:
			h.handleSet(w, r)
		case http.MethodDelete:
			h.handleClear(w, r)
		default:
			methodNotAllowed(w)
		}
	case "complete", "archive":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.handleFinish(w, r, action)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

func (h *CurrentHandler) writeCurrent(w http.ResponseWriter) {
	var resp currentResponse
	if todo, ok := h.store.CurrentlyDoing(); ok {
		resp.Todo = &todo
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *CurrentHandler) handleSet(w http.ResponseWriter, r *http.Request) {
	var req setCurrentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ID == "" {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "id is required; use DELETE to clear")
		return
	}

	if err := h.store.SetCurrentlyDoing(r.Context(), req.ID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	h.writeCurrent(w)
}

func (h *CurrentHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SetCurrentlyDoing(r.Context(), ""); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CurrentHandler) handleFinish(w http.ResponseWriter, r *http.Request, action string) {
	finish := h.store.CompleteCurrentlyDoing
	if action == "archive" {
		finish = h.store.ArchiveCurrentlyDoing
	}

	todo, err := finish(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, todo)
}
