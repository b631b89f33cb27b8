package blog

import "context"

// ListUsersMessage returns every account with its role set. Administrators
// only.
type ListUsersMessage struct{}

func (e ListUsersMessage) Type() string { return "user.list" }

type ListUsersHandler struct {
	pipeline *Pipeline
	identity IdentityManager
}

func NewListUsersHandler(pipeline *Pipeline, identity IdentityManager) *ListUsersHandler {
	return &ListUsersHandler{
		pipeline: pipeline,
		identity: identity,
	}
}

func (h *ListUsersHandler) Execute(ctx context.Context, msg ListUsersMessage) ([]*UserResponse, error) {
	return Query(ctx, h.pipeline, msg, []Rule{RequireRole(RoleAdmin)}, h.execute)
}

func (h *ListUsersHandler) execute(ctx context.Context, _ AuthClaims, _ ListUsersMessage) ([]*UserResponse, error) {
	users, err := h.identity.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out, nil
}
