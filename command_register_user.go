package blog

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RegisterUserMessage creates a new account. Registration is open to
// anonymous callers and never grants a role; elevated access is assigned
// separately by an administrator.
type RegisterUserMessage struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Username,
			validation.Required,
			validation.Length(3, 100),
			validation.By(ValidateNoWhitespace()),
		),
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.Phone, validation.By(ValidatePhoneNumber("BR"))),
		validation.Field(&e.Password, validation.Required, validation.Length(6, 100)),
	)
}

type RegisterUserHandler struct {
	pipeline *Pipeline
	identity IdentityManager
}

func NewRegisterUserHandler(pipeline *Pipeline, identity IdentityManager) *RegisterUserHandler {
	return &RegisterUserHandler{
		pipeline: pipeline,
		identity: identity,
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, msg RegisterUserMessage) (*UserResponse, error) {
	return Execute(ctx, h.pipeline, msg, nil, h.execute)
}

func (h *RegisterUserHandler) execute(ctx context.Context, tx bun.IDB, _ AuthClaims, msg RegisterUserMessage) (*UserResponse, error) {
	user := &User{
		ID:       deterministicUserID(msg.Email),
		Username: strings.TrimSpace(msg.Username),
		Email:    msg.Email,
		Phone:    msg.Phone,
		Roles:    []string{},
	}

	created, err := h.identity.CreateUserTx(ctx, tx, user, msg.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration failed")
	}

	return NewUserResponse(created), nil
}

// deterministicUserID derives a stable UUID from the account email so
// re-registration attempts collide on id as well as on the unique columns.
func deterministicUserID(email string) uuid.UUID {
	if id, err := hashid.NewUUID(NormalizeEmail(email)); err == nil {
		return id
	}
	return uuid.New()
}
