package blog

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"

	"github.com/caderno/blog/middleware/tokenware"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPController exposes the dispatch operations as a JSON API. Every
// route runs the token extractor first; requests without a credential
// proceed as anonymous and the dispatch gates decide what they may do.
type HTTPController struct {
	registerUser *RegisterUserHandler
	loginUser    *LoginUserHandler
	listUsers    *ListUsersHandler
	editUser     *EditUserHandler
	deleteUser   *DeleteUserHandler
	createPost   *CreatePostHandler
	listPosts    *ListPostsHandler
	editPost     *EditPostHandler
	deletePost   *DeletePostHandler

	tokens TokenService
	cfg    Config
	Logger Logger

	ErrorHandler func(c router.Context, err error) error
}

// NewHTTPController wires the dispatch handlers behind the HTTP surface.
func NewHTTPController(pipeline *Pipeline, identity IdentityManager, provider IdentityProvider, tokens TokenService, posts Posts, cfg Config) *HTTPController {
	c := &HTTPController{
		registerUser: NewRegisterUserHandler(pipeline, identity),
		loginUser:    NewLoginUserHandler(pipeline, provider, tokens),
		listUsers:    NewListUsersHandler(pipeline, identity),
		editUser:     NewEditUserHandler(pipeline, identity),
		deleteUser:   NewDeleteUserHandler(pipeline, identity),
		createPost:   NewCreatePostHandler(pipeline, posts),
		listPosts:    NewListPostsHandler(pipeline, posts),
		editPost:     NewEditPostHandler(pipeline, posts),
		deletePost:   NewDeletePostHandler(pipeline, posts),
		tokens:       tokens,
		cfg:          cfg,
		Logger:       defLogger{},
	}

	c.ErrorHandler = c.renderError
	return c
}

func (c *HTTPController) WithLogger(logger Logger) *HTTPController {
	if logger != nil {
		c.Logger = logger
	}
	return c
}

// RegisterRoutes mounts the API. Registration and login are open; every
// other operation is gated by the dispatch pipeline using the claims the
// token middleware attached.
func (c *HTTPController) RegisterRoutes(group RouteRegistrar) {
	authed := c.TokenMiddleware()

	group.Post("/auth/register", c.RegisterUser)
	group.Post("/auth/login", c.LoginUser)

	group.Get("/users", c.ListUsers, authed)
	group.Put("/users/:id", c.EditUser, authed)
	group.Delete("/users/:id", c.DeleteUser, authed)

	group.Get("/posts", c.ListPosts, authed)
	group.Post("/posts", c.CreatePost, authed)
	group.Put("/posts/:id", c.EditPost, authed)
	group.Delete("/posts/:id", c.DeletePost, authed)
}

// TokenMiddleware extracts and validates the bearer token. A missing
// credential continues as anonymous; a credential that fails validation is
// rejected here.
func (c *HTTPController) TokenMiddleware() router.MiddlewareFunc {
	return tokenware.New(tokenware.Config{
		Validator:   tokenValidatorAdapter{tokens: c.tokens},
		ContextKey:  c.cfg.GetContextKey(),
		TokenLookup: c.cfg.GetTokenLookup(),
		AuthScheme:  c.cfg.GetAuthScheme(),
		Optional:    true,
		ErrorHandler: func(ctx router.Context, err error) error {
			return c.ErrorHandler(ctx, err)
		},
		ContextEnricher: ContextEnricherAdapter,
	})
}

func (c *HTTPController) RegisterUser(ctx router.Context) error {
	payload := RegisterUserMessage{}
	if err := ctx.Bind(&payload); err != nil {
		return c.ErrorHandler(ctx, badPayload(err))
	}

	res, err := c.registerUser.Execute(ctx.Context(), payload)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, res)
}

func (c *HTTPController) LoginUser(ctx router.Context) error {
	payload := LoginUserMessage{}
	if err := ctx.Bind(&payload); err != nil {
		return c.ErrorHandler(ctx, badPayload(err))
	}

	res, err := c.loginUser.Execute(ctx.Context(), payload)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, res)
}

func (c *HTTPController) ListUsers(ctx router.Context) error {
	res, err := c.listUsers.Execute(ctx.Context(), ListUsersMessage{})
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"users": res})
}

func (c *HTTPController) EditUser(ctx router.Context) error {
	payload := EditUserMessage{}
	if err := ctx.Bind(&payload); err != nil {
		return c.ErrorHandler(ctx, badPayload(err))
	}
	payload.ID = ctx.Param("id")

	res, err := c.editUser.Execute(ctx.Context(), payload)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, res)
}

func (c *HTTPController) DeleteUser(ctx router.Context) error {
	payload := DeleteUserMessage{ID: ctx.Param("id")}

	id, err := c.deleteUser.Execute(ctx.Context(), payload)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{"id": id})
}

func (c *HTTPController) CreatePost(ctx router.Context) error {
	payload := CreatePostMessage{}
	if err := ctx.Bind(&payload); err != nil {
		return c.ErrorHandler(ctx, badPayload(err))
	}

	res, err := c.createPost.Execute(ctx.Context(), payload)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, res)
}

func (c *HTTPController) ListPosts(ctx router.Context) error {
	payload := ListPostsMessage{AuthorID: ctx.Query("author_id", "")}

	res, err := c.listPosts.Execute(ctx.Context(), payload)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"posts": res})
}

func (c *HTTPController) EditPost(ctx router.Context) error {
	payload := EditPostMessage{}
	if err := ctx.Bind(&payload); err != nil {
		return c.ErrorHandler(ctx, badPayload(err))
	}
	payload.ID = ctx.Param("id")

	res, err := c.editPost.Execute(ctx.Context(), payload)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, res)
}

func (c *HTTPController) DeletePost(ctx router.Context) error {
	payload := DeletePostMessage{ID: ctx.Param("id")}

	id, err := c.deletePost.Execute(ctx.Context(), payload)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{"id": id})
}

// renderError maps a dispatch outcome onto the wire. Internal failures are
// logged with their detail and answered with a generic body.
func (c *HTTPController) renderError(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := statusFromError(richErr)

	body := map[string]any{
		"message":  richErr.Message,
		"category": string(richErr.Category),
	}
	if richErr.TextCode != "" {
		body["text_code"] = richErr.TextCode
	}
	if fields := ValidationFields(richErr); len(fields) > 0 {
		body["validation"] = fields
	}

	if status >= router.StatusInternalServerError {
		c.Logger.Error(
			"request failed",
			"error", richErr.Message,
			"category", richErr.Category,
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)
		body["message"] = "An unexpected error occurred"
		delete(body, "text_code")
	}

	return ctx.JSON(status, map[string]any{"error": body})
}

func statusFromError(richErr *errors.Error) int {
	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return router.StatusBadRequest
	case errors.CategoryAuth:
		return router.StatusUnauthorized
	case errors.CategoryAuthz:
		return router.StatusForbidden
	case errors.CategoryNotFound:
		return router.StatusNotFound
	case errors.CategoryConflict:
		return router.StatusConflict
	}

	if richErr.Code >= router.StatusBadRequest {
		return richErr.Code
	}

	return router.StatusInternalServerError
}

func badPayload(err error) *errors.Error {
	return errors.Wrap(err, errors.CategoryBadInput, "could not parse request body").
		WithCode(errors.CodeBadRequest)
}

// tokenValidatorAdapter bridges TokenService into the middleware's local
// validator interface.
type tokenValidatorAdapter struct {
	tokens TokenService
}

func (a tokenValidatorAdapter) Validate(token string) (tokenware.AuthClaims, error) {
	claims, err := a.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
