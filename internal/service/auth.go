package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jaekwang-park/todo-tracker/internal/cognito"
)

// AuthService signs the tracker's single owner in and out.
type AuthService struct {
	client   cognito.Client
	ownerSub string
	logger   *slog.Logger
}

// NewAuthService creates an AuthService that only admits the account whose
// subject is ownerSub. An empty ownerSub admits any account in the pool.
func NewAuthService(client cognito.Client, ownerSub string, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{client: client, ownerSub: ownerSub, logger: logger}
}

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int32  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

type RefreshInput struct {
	Username     string
	RefreshToken string
}

type RefreshOutput struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int32  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginOutput, error) {
	if input.Username == "" {
		return LoginOutput{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if input.Password == "" {
		return LoginOutput{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	tokens, err := s.client.SignIn(ctx, cognito.SignInInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		return LoginOutput{}, err
	}

	// The ID token was just issued by Cognito; its signature is checked on use.
	sub, err := extractSub(tokens.IDToken)
	if err != nil {
		return LoginOutput{}, fmt.Errorf("failed to extract sub from id token: %w", err)
	}
	if s.ownerSub != "" && sub != s.ownerSub {
		if err := s.client.SignOut(ctx, tokens.AccessToken); err != nil {
			s.logger.WarnContext(ctx, "failed to revoke non-owner session", "error", err)
		}
		return LoginOutput{}, fmt.Errorf("%w: account is not the tracker owner", ErrForbidden)
	}

	return LoginOutput{
		IDToken:      tokens.IDToken,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (RefreshOutput, error) {
	if input.RefreshToken == "" {
		return RefreshOutput{}, fmt.Errorf("%w: refresh_token is required", ErrInvalidInput)
	}

	tokens, err := s.client.Refresh(ctx, cognito.RefreshInput{
		Username:     input.Username,
		RefreshToken: input.RefreshToken,
	})
	if err != nil {
		return RefreshOutput{}, err
	}

	return RefreshOutput{
		IDToken:     tokens.IDToken,
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
		TokenType:   tokens.TokenType,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return fmt.Errorf("%w: access_token is required", ErrInvalidInput)
	}
	return s.client.SignOut(ctx, accessToken)
}

// extractSub reads the "sub" claim from a JWT payload without verifying the signature.
func extractSub(idToken string) (string, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return "", errors.New("invalid JWT format")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("failed to decode JWT payload: %w", err)
	}

	var claims struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", fmt.Errorf("failed to parse JWT claims: %w", err)
	}
	if claims.Sub == "" {
		return "", errors.New("sub claim not found in JWT")
	}

	return claims.Sub, nil
}
