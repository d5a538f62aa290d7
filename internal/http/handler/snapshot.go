package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/jaekwang-park/todo-tracker/internal/service"
)

const maxSnapshotSize = 16 << 20 // 16 MB

// SnapshotHandler exports and imports the whole collection as JSON.
type SnapshotHandler struct {
	store *service.TodoStore
}

func NewSnapshotHandler(store *service.TodoStore) *SnapshotHandler {
	return &SnapshotHandler{store: store}
}

func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleExport(w, r)
	case http.MethodPut:
		h.handleImport(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *SnapshotHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.Export()
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="todos.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *SnapshotHandler) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotSize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "TOO_LARGE", "snapshot exceeds size limit")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_BODY", "failed to read request body")
		return
	}

	if err := h.store.Import(r.Context(), data); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
