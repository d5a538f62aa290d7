package cognito

import "context"

// Client signs the tracker's owner in and out of the Cognito user pool.
type Client interface {
	SignIn(ctx context.Context, input SignInInput) (Tokens, error)
	Refresh(ctx context.Context, input RefreshInput) (Tokens, error)
	SignOut(ctx context.Context, accessToken string) error
}

type SignInInput struct {
	Username string
	Password string
}

type RefreshInput struct {
	// Username is only needed to compute the secret hash.
	Username     string
	RefreshToken string
}

// Tokens is the token set returned by a successful sign-in or refresh.
// Refresh leaves RefreshToken empty.
type Tokens struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int32
	TokenType    string
}
