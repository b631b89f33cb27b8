package blog

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/uptrace/bun"
)

// EditUserMessage renames an account. Administrators only; the new username
// must not belong to a different account.
type EditUserMessage struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (e EditUserMessage) Type() string { return "user.edit" }

func (e EditUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, is.UUID),
		validation.Field(&e.Username,
			validation.Required,
			validation.Length(3, 100),
			validation.By(ValidateNoWhitespace()),
		),
	)
}

type EditUserHandler struct {
	pipeline *Pipeline
	identity IdentityManager
}

func NewEditUserHandler(pipeline *Pipeline, identity IdentityManager) *EditUserHandler {
	return &EditUserHandler{
		pipeline: pipeline,
		identity: identity,
	}
}

func (h *EditUserHandler) Execute(ctx context.Context, msg EditUserMessage) (*UserResponse, error) {
	return Execute(ctx, h.pipeline, msg, []Rule{RequireRole(RoleAdmin)}, h.execute)
}

func (h *EditUserHandler) execute(ctx context.Context, tx bun.IDB, _ AuthClaims, msg EditUserMessage) (*UserResponse, error) {
	user, err := h.identity.FindByIDTx(ctx, tx, msg.ID)
	if err != nil {
		return nil, err
	}

	updated, err := h.identity.SetUserNameTx(ctx, tx, user, msg.Username)
	if err != nil {
		return nil, err
	}

	return NewUserResponse(updated), nil
}
