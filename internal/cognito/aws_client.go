package cognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

// IdentityProviderAPI is the subset of the Cognito identity provider client
// used by AWSClient.
type IdentityProviderAPI interface {
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	GlobalSignOut(ctx context.Context, params *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
}

// AWSClient implements Client against a Cognito app client.
type AWSClient struct {
	api          IdentityProviderAPI
	clientID     string
	clientSecret string
}

func NewAWSClient(api IdentityProviderAPI, clientID, clientSecret string) *AWSClient {
	return &AWSClient{api: api, clientID: clientID, clientSecret: clientSecret}
}

// NewDefaultAWSClient builds an AWSClient from the default AWS credential chain.
func NewDefaultAWSClient(ctx context.Context, region, clientID, clientSecret string) (*AWSClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewAWSClient(cip.NewFromConfig(cfg), clientID, clientSecret), nil
}

func (c *AWSClient) authParams(username string, params map[string]string) map[string]string {
	if c.clientSecret != "" {
		params["SECRET_HASH"] = SecretHash(username, c.clientID, c.clientSecret)
	}
	return params
}

func (c *AWSClient) SignIn(ctx context.Context, input SignInInput) (Tokens, error) {
	return c.initiateAuth(ctx, types.AuthFlowTypeUserPasswordAuth, c.authParams(input.Username, map[string]string{
		"USERNAME": input.Username,
		"PASSWORD": input.Password,
	}))
}

func (c *AWSClient) Refresh(ctx context.Context, input RefreshInput) (Tokens, error) {
	return c.initiateAuth(ctx, types.AuthFlowTypeRefreshTokenAuth, c.authParams(input.Username, map[string]string{
		"REFRESH_TOKEN": input.RefreshToken,
	}))
}

func (c *AWSClient) initiateAuth(ctx context.Context, flow types.AuthFlowType, params map[string]string) (Tokens, error) {
	out, err := c.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		ClientId:       aws.String(c.clientID),
		AuthFlow:       flow,
		AuthParameters: params,
	})
	if err != nil {
		return Tokens{}, mapAWSError(err)
	}
	if out.AuthenticationResult == nil {
		// Cognito answers with a challenge (e.g. NEW_PASSWORD_REQUIRED) instead of tokens.
		return Tokens{}, fmt.Errorf("challenge %q not supported: %w", out.ChallengeName, ErrNotAuthorized)
	}

	r := out.AuthenticationResult
	return Tokens{
		IDToken:      aws.ToString(r.IdToken),
		AccessToken:  aws.ToString(r.AccessToken),
		RefreshToken: aws.ToString(r.RefreshToken),
		ExpiresIn:    r.ExpiresIn,
		TokenType:    aws.ToString(r.TokenType),
	}, nil
}

func (c *AWSClient) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return mapAWSError(err)
	}
	return nil
}

// mapAWSError converts AWS SDK errors to the package's sentinel errors.
func mapAWSError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("cognito: %w", err)
	}

	var sentinel error
	switch apiErr.ErrorCode() {
	case "NotAuthorizedException":
		sentinel = ErrNotAuthorized
	case "UserNotFoundException":
		sentinel = ErrUserNotFound
	case "UserNotConfirmedException":
		sentinel = ErrUserNotConfirmed
	case "PasswordResetRequiredException":
		sentinel = ErrPasswordResetRequired
	case "TooManyRequestsException", "LimitExceededException":
		sentinel = ErrTooManyRequests
	case "InvalidParameterException":
		sentinel = ErrInvalidParameter
	default:
		return fmt.Errorf("cognito %s: %w", apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), sentinel)
}

var _ Client = (*AWSClient)(nil)
