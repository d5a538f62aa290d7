package handler

import (
	"net/http"
	"strings"

	"github.com/jaekwang-park/todo-tracker/internal/service"
)

type CategoryHandler struct {
	store *service.TodoStore
}

func NewCategoryHandler(store *service.TodoStore) *CategoryHandler {
	return &CategoryHandler{store: store}
}

func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]string{"categories": h.store.Categories()})
}

// sameCategory compares a stored category with user input the way the store
// normalizes categories.
func sameCategory(stored, input string) bool {
	return stored == strings.ToLower(strings.TrimSpace(input))
}
