package handler

import (
	"net/http"

	"github.com/jaekwang-park/todo-tracker/internal/model"
	"github.com/jaekwang-park/todo-tracker/internal/service"
)

type SortSettingsHandler struct {
	store *service.TodoStore
}

func NewSortSettingsHandler(store *service.TodoStore) *SortSettingsHandler {
	return &SortSettingsHandler{store: store}
}

type sortOptionView struct {
	Value model.SortOption `json:"value"`
	Label string           `json:"label"`
}

type sortSettingsResponse struct {
	Sort    model.SortOption `json:"sort"`
	Options []sortOptionView `json:"options"`
}

type sortSettingsRequest struct {
	Sort string `json:"sort"`
}

func (h *SortSettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req sortSettingsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		opt, err := model.ParseSortOption(req.Sort)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "INVALID_SORT", err.Error())
			return
		}
		if err := h.store.SetSortOption(opt); err != nil {
			handleServiceError(w, r, err)
			return
		}
	default:
		methodNotAllowed(w)
		return
	}

	resp := sortSettingsResponse{Sort: h.store.SortOption()}
	for _, opt := range model.SortOptions() {
		resp.Options = append(resp.Options, sortOptionView{Value: opt, Label: opt.DisplayName()})
	}
	WriteJSON(w, http.StatusOK, resp)
}
