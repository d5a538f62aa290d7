package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// DevOwnerSub is the subject attached to requests in dev mode when no owner
// is configured.
const DevOwnerSub = "dev-owner"

// KeySource resolves a JWT key id to its RSA public key.
type KeySource interface {
	GetKey(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

type AuthConfig struct {
	DevMode     bool
	Keys        KeySource
	Issuer      string
	AppClientID string
	// OwnerSub is the only subject allowed through. Empty admits any valid token.
	OwnerSub string
	Logger   *slog.Logger
}

// Auth admits only the tracker owner to the API.
type Auth struct {
	cfg AuthConfig
}

func NewAuth(cfg AuthConfig) (*Auth, error) {
	if !cfg.DevMode && cfg.Keys == nil {
		return nil, errors.New("middleware: Keys is required when DevMode is false")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Auth{cfg: cfg}, nil
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cleanPath := path.Clean(r.URL.Path)
		if cleanPath == "/health" || strings.HasPrefix(cleanPath, "/api/v1/auth/") {
			next.ServeHTTP(w, r)
			return
		}

		if a.cfg.DevMode {
			sub := a.cfg.OwnerSub
			if sub == "" {
				sub = DevOwnerSub
			}
			next.ServeHTTP(w, r.WithContext(SetSubject(r.Context(), sub)))
			return
		}

		a.handleJWT(w, r, next)
	})
}

func (a *Auth) handleJWT(w http.ResponseWriter, r *http.Request, next http.Handler) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authorization header required")
		return
	}

	tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
		return
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("kid header not found")
		}
		return a.cfg.Keys.GetKey(r.Context(), kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(a.cfg.Issuer),
		jwt.WithAudience(a.cfg.AppClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		a.cfg.Logger.DebugContext(r.Context(), "token rejected", "error", err)
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
		return
	}

	if claims.Subject == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sub claim not found")
		return
	}
	if a.cfg.OwnerSub != "" && claims.Subject != a.cfg.OwnerSub {
		a.cfg.Logger.WarnContext(r.Context(), "non-owner token rejected", "sub", claims.Subject)
		writeError(w, http.StatusForbidden, "FORBIDDEN", "only the tracker owner may access this resource")
		return
	}

	next.ServeHTTP(w, r.WithContext(SetSubject(r.Context(), claims.Subject)))
}

// CognitoJWKSURL returns the JWKS URL for the given Cognito User Pool.
func CognitoJWKSURL(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json", region, userPoolID)
}

// CognitoIssuer returns the expected issuer for the given Cognito User Pool.
func CognitoIssuer(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}
