package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jaekwang-park/todo-tracker/internal/cognito"
	"github.com/jaekwang-park/todo-tracker/internal/service"
)

// AuthHandler serves the owner's sign-in endpoints.
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// ServeHTTP routes /api/v1/auth/{login,refresh,logout}.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action, _ := splitPath(r.URL.Path, "/api/v1/auth")

	var handle func(http.ResponseWriter, *http.Request)
	switch action {
	case "login":
		handle = h.handleLogin
	case "refresh":
		handle = h.handleRefresh
	case "logout":
		handle = h.handleLogout
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}

	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	handle(w, r)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Username     string `json:"username"`
	RefreshToken string `json:"refresh_token"`
}

type logoutRequest struct {
	AccessToken string `json:"access_token"`
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.svc.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, out)
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.svc.Refresh(r.Context(), service.RefreshInput{
		Username:     req.Username,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, out)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.Logout(r.Context(), req.AccessToken); err != nil {
		handleAuthError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// handleAuthError maps auth failures to fixed client messages and logs the detail.
func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	if info, ok := cognito.LookupError(err); ok {
		slog.WarnContext(r.Context(), "auth error", "code", info.Code, "detail", err.Error())
		WriteError(w, info.Status, info.Code, cognitoErrorMessage(info.Code))
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrForbidden):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "account is not the tracker owner")
	default:
		slog.ErrorContext(r.Context(), "auth internal error", "error", err.Error())
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

var cognitoMessages = map[string]string{
	"NOT_AUTHORIZED":          "incorrect username or password",
	"USER_NOT_CONFIRMED":      "account not confirmed",
	"PASSWORD_RESET_REQUIRED": "password reset is required",
	"TOO_MANY_REQUESTS":       "too many requests, please try again later",
	"INVALID_PARAMETER":       "invalid request parameter",
}

func cognitoErrorMessage(code string) string {
	if msg, ok := cognitoMessages[code]; ok {
		return msg
	}
	return "an error occurred"
}
