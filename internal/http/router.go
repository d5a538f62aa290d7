package http

import (
	"net/http"

	"github.com/jaekwang-park/todo-tracker/internal/http/handler"
	"github.com/jaekwang-park/todo-tracker/internal/service"
)

// RouterConfig holds what the router exposes. AuthSvc may be nil, in which
// case the sign-in endpoints are not registered.
type RouterConfig struct {
	Store   *service.TodoStore
	AuthSvc *service.AuthService
	Storage string
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Outside /api/v1 so load balancer health checks need no token.
	mux.Handle("/health", handler.NewHealthHandler(cfg.Storage))

	todos := handler.NewTodoHandler(cfg.Store)
	mux.Handle("/api/v1/todos", todos)
	mux.Handle("/api/v1/todos/", todos)

	current := handler.NewCurrentHandler(cfg.Store)
	mux.Handle("/api/v1/current", current)
	mux.Handle("/api/v1/current/", current)

	mux.Handle("/api/v1/categories", handler.NewCategoryHandler(cfg.Store))
	mux.Handle("/api/v1/snapshot", handler.NewSnapshotHandler(cfg.Store))
	mux.Handle("/api/v1/settings/sort", handler.NewSortSettingsHandler(cfg.Store))

	if cfg.AuthSvc != nil {
		mux.Handle("/api/v1/auth/", handler.NewAuthHandler(cfg.AuthSvc))
	}

	return mux
}
