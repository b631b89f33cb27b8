package blog

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/uptrace/bun"
)

// DeleteUserMessage removes an account. Administrators only; the account's
// posts stay behind with their author id intact.
type DeleteUserMessage struct {
	ID string `json:"id"`
}

func (e DeleteUserMessage) Type() string { return "user.delete" }

func (e DeleteUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, is.UUID),
	)
}

type DeleteUserHandler struct {
	pipeline *Pipeline
	identity IdentityManager
}

func NewDeleteUserHandler(pipeline *Pipeline, identity IdentityManager) *DeleteUserHandler {
	return &DeleteUserHandler{
		pipeline: pipeline,
		identity: identity,
	}
}

func (h *DeleteUserHandler) Execute(ctx context.Context, msg DeleteUserMessage) (string, error) {
	return Execute(ctx, h.pipeline, msg, []Rule{RequireRole(RoleAdmin)}, h.execute)
}

func (h *DeleteUserHandler) execute(ctx context.Context, tx bun.IDB, _ AuthClaims, msg DeleteUserMessage) (string, error) {
	user, err := h.identity.FindByIDTx(ctx, tx, msg.ID)
	if err != nil {
		return "", err
	}

	if err := h.identity.DeleteUserTx(ctx, tx, user); err != nil {
		return "", err
	}

	return user.ID.String(), nil
}
