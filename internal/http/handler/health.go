package handler

import "net/http"

type HealthHandler struct {
	storage string
}

// NewHealthHandler reports the active storage backend alongside liveness.
func NewHealthHandler(storage string) *HealthHandler {
	return &HealthHandler{storage: storage}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": h.storage})
}
