package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const subjectKey contextKey = "subject"

// SetSubject records the authenticated token subject on ctx.
func SetSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey, sub)
}

func Subject(r *http.Request) string {
	v, _ := r.Context().Value(subjectKey).(string)
	return v
}
