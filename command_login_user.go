package blog

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// LoginUserMessage exchanges credentials for a bearer token. The identifier
// may be a username or an email address; unknown accounts and wrong
// passwords fail identically.
type LoginUserMessage struct {
	Identifier string `json:"username"`
	Password   string `json:"password"`
}

func (e LoginUserMessage) Type() string { return "user.login" }

func (e LoginUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Identifier, validation.Required, validation.Length(3, 100)),
		validation.Field(&e.Password, validation.Required),
	)
}

type LoginUserHandler struct {
	pipeline *Pipeline
	provider IdentityProvider
	tokens   TokenService
}

func NewLoginUserHandler(pipeline *Pipeline, provider IdentityProvider, tokens TokenService) *LoginUserHandler {
	return &LoginUserHandler{
		pipeline: pipeline,
		provider: provider,
		tokens:   tokens,
	}
}

func (h *LoginUserHandler) Execute(ctx context.Context, msg LoginUserMessage) (*LoginUserResponse, error) {
	return Query(ctx, h.pipeline, msg, nil, h.execute)
}

func (h *LoginUserHandler) execute(ctx context.Context, _ AuthClaims, msg LoginUserMessage) (*LoginUserResponse, error) {
	identity, err := h.provider.VerifyIdentity(ctx, msg.Identifier, msg.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "login failed")
	}

	token, err := h.tokens.Generate(identity)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint token")
	}

	return &LoginUserResponse{
		Token:    token,
		Username: identity.Username(),
		Email:    identity.Email(),
	}, nil
}
