package middleware_test

import (
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jaekwang-park/todo-tracker/internal/middleware"
)

const (
	testIssuer   = "https://cognito-idp.ap-northeast-2.amazonaws.com/pool-1"
	testClientID = "client-1"
	testOwner    = "owner-sub-123"
	testKid      = "jwt-test-kid"
)

func signedToken(t *testing.T, privKey *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(privKey)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func validClaims(sub string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":       sub,
		"iss":       testIssuer,
		"aud":       testClientID,
		"exp":       time.Now().Add(time.Hour).Unix(),
		"token_use": "id",
	}
}

// captureSubject returns a handler recording the request subject.
func captureSubject(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = middleware.Subject(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewAuth_RequiresKeysOutsideDevMode(t *testing.T) {
	if _, err := middleware.NewAuth(middleware.AuthConfig{}); err == nil {
		t.Error("expected error without key source")
	}
	if _, err := middleware.NewAuth(middleware.AuthConfig{DevMode: true}); err != nil {
		t.Errorf("dev mode needs no key source: %v", err)
	}
}

func TestAuth_DevMode(t *testing.T) {
	tests := []struct {
		name     string
		ownerSub string
		want     string
	}{
		{"configured owner", testOwner, testOwner},
		{"no owner configured", "", middleware.DevOwnerSub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, err := middleware.NewAuth(middleware.AuthConfig{DevMode: true, OwnerSub: tt.ownerSub})
			if err != nil {
				t.Fatalf("NewAuth: %v", err)
			}

			var got string
			req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
			w := httptest.NewRecorder()
			auth.Middleware(captureSubject(&got)).ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d", w.Code)
			}
			if got != tt.want {
				t.Errorf("subject: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuth_SkipsPublicEndpoints(t *testing.T) {
	auth, err := middleware.NewAuth(middleware.AuthConfig{Keys: middleware.NewJWKSClient("http://unused")})
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}

	for _, path := range []string{"/health", "/api/v1/auth/login", "/api/v1/auth/refresh", "/api/v1/auth/logout"} {
		var called bool
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()

		auth.Middleware(inner).ServeHTTP(w, req)

		if w.Code != http.StatusOK || !called {
			t.Errorf("%s: expected pass-through, got %d (called=%v)", path, w.Code, called)
		}
	}
}

func TestAuth_JWT(t *testing.T) {
	privKey := generateKey(t)
	otherKey := generateKey(t)
	srv, _ := jwksServer(t, testKid, privKey)

	expired := validClaims(testOwner)
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	wrongIssuer := validClaims(testOwner)
	wrongIssuer["iss"] = "https://wrong-issuer.example.com"
	wrongAudience := validClaims(testOwner)
	wrongAudience["aud"] = "other-client"
	noExpiry := validClaims(testOwner)
	delete(noExpiry, "exp")

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantSub    string
	}{
		{
			name:       "owner token",
			header:     "Bearer " + signedToken(t, privKey, testKid, validClaims(testOwner)),
			wantStatus: http.StatusOK,
			wantSub:    testOwner,
		},
		{
			name:       "non-owner token",
			header:     "Bearer " + signedToken(t, privKey, testKid, validClaims("someone-else")),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not bearer",
			header:     "NotBearer token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired",
			header:     "Bearer " + signedToken(t, privKey, testKid, expired),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no expiry",
			header:     "Bearer " + signedToken(t, privKey, testKid, noExpiry),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong issuer",
			header:     "Bearer " + signedToken(t, privKey, testKid, wrongIssuer),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong audience",
			header:     "Bearer " + signedToken(t, privKey, testKid, wrongAudience),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "signed by another key",
			header:     "Bearer " + signedToken(t, otherKey, testKid, validClaims(testOwner)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing sub",
			header:     "Bearer " + signedToken(t, privKey, testKid, validClaims("")),
			wantStatus: http.StatusUnauthorized,
		},
	}

	auth, err := middleware.NewAuth(middleware.AuthConfig{
		Keys:        middleware.NewJWKSClient(srv.URL),
		Issuer:      testIssuer,
		AppClientID: testClientID,
		OwnerSub:    testOwner,
	})
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			auth.Middleware(captureSubject(&got)).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if got != tt.wantSub {
				t.Errorf("subject: got %q, want %q", got, tt.wantSub)
			}
		})
	}
}
