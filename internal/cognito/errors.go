package cognito

import (
	"errors"
	"net/http"
)

var (
	ErrNotAuthorized         = errors.New("not authorized")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserNotConfirmed      = errors.New("user not confirmed")
	ErrPasswordResetRequired = errors.New("password reset required")
	ErrTooManyRequests       = errors.New("too many requests")
	ErrInvalidParameter      = errors.New("invalid parameter")
)

// ErrorInfo is the HTTP status and error code a Cognito failure maps to.
type ErrorInfo struct {
	Status int
	Code   string
}

var errorMap = map[error]ErrorInfo{
	ErrNotAuthorized:         {Status: http.StatusUnauthorized, Code: "NOT_AUTHORIZED"},
	ErrUserNotFound:          {Status: http.StatusUnauthorized, Code: "NOT_AUTHORIZED"},
	ErrUserNotConfirmed:      {Status: http.StatusForbidden, Code: "USER_NOT_CONFIRMED"},
	ErrPasswordResetRequired: {Status: http.StatusForbidden, Code: "PASSWORD_RESET_REQUIRED"},
	ErrTooManyRequests:       {Status: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS"},
	ErrInvalidParameter:      {Status: http.StatusBadRequest, Code: "INVALID_PARAMETER"},
}

// LookupError reports the ErrorInfo for err when it wraps one of the
// package's sentinel errors.
func LookupError(err error) (ErrorInfo, bool) {
	for sentinel, info := range errorMap {
		if errors.Is(err, sentinel) {
			return info, true
		}
	}
	return ErrorInfo{}, false
}
