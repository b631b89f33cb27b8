package blog

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Message is a dispatchable request. Type returns a stable name used for
// routing and log correlation, e.g. "user.register".
type Message interface {
	Type() string
}

// Validatable messages declare their own shape rules (ozzo-validation).
// The pipeline runs them before authentication, authorization, and any
// store access.
type Validatable interface {
	Validate() error
}

// CommandFunc is a handler body for a mutating operation. It receives the
// request-scoped transaction; every store write it performs commits
// atomically with the others or not at all.
type CommandFunc[T Message, R any] func(ctx context.Context, tx bun.IDB, claims AuthClaims, msg T) (R, error)

// QueryFunc is a handler body for a read-only operation. It runs outside
// any transaction.
type QueryFunc[T Message, R any] func(ctx context.Context, claims AuthClaims, msg T) (R, error)

// Pipeline dispatches messages through a fixed sequence of side-effect-free
// gates followed by the handler body and the commit boundary:
//
//	received → validated → authenticated/authorized → executed → committed
//
// The first failing step terminates the dispatch; the handler body never
// runs on a validation or authorization failure, and commit is attempted
// only when the handler body returned success. Pipeline holds no
// cross-request state and is safe for concurrent use.
type Pipeline struct {
	repo   RepositoryManager
	logger Logger
}

// NewPipeline creates a dispatch pipeline bound to the repository manager
// whose RunInTx provides the commit boundary.
func NewPipeline(repo RepositoryManager) *Pipeline {
	return &Pipeline{
		repo:   repo,
		logger: defLogger{},
	}
}

func (p *Pipeline) WithLogger(logger Logger) *Pipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Repo exposes the repository manager for handler wiring.
func (p *Pipeline) Repo() RepositoryManager {
	return p.repo
}

// Execute dispatches a mutating message. rules are the pre-load
// authorization gates (authentication, role membership); ownership checks
// run inside the handler after the resource is loaded. The handler executes
// inside a single transaction that commits only if the handler returns nil.
func Execute[T Message, R any](ctx context.Context, p *Pipeline, msg T, rules []Rule, handler CommandFunc[T, R]) (R, error) {
	var zero R

	claims, err := p.gate(ctx, msg, rules)
	if err != nil {
		return zero, err
	}

	var result R
	err = p.repo.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var execErr error
		result, execErr = runHandler(ctx, p, msg, func(ctx context.Context) (R, error) {
			return handler(ctx, tx, claims, msg)
		})
		return execErr
	})

	if err != nil {
		return zero, p.normalize(msg, err)
	}

	return result, nil
}

// Query dispatches a read-only message through the same gates without a
// transaction.
func Query[T Message, R any](ctx context.Context, p *Pipeline, msg T, rules []Rule, handler QueryFunc[T, R]) (R, error) {
	var zero R

	claims, err := p.gate(ctx, msg, rules)
	if err != nil {
		return zero, err
	}

	result, err := runHandler(ctx, p, msg, func(ctx context.Context) (R, error) {
		return handler(ctx, claims, msg)
	})
	if err != nil {
		return zero, p.normalize(msg, err)
	}

	return result, nil
}

// gate runs the side-effect-free stages: cancellation, validation, then
// authorization over the claims the extractor attached to the context.
func (p *Pipeline) gate(ctx context.Context, msg Message, rules []Rule) (AuthClaims, error) {
	select {
	case <-ctx.Done():
		return nil, errors.Wrap(
			ctx.Err(),
			errors.CategoryOperation,
			"context cancelled before dispatch",
		)
	default:
	}

	if v, ok := msg.(Validatable); ok {
		if err := v.Validate(); err != nil {
			p.logger.Debug("dispatch validation failed", "type", msg.Type(), "error", err)
			return nil, NewValidationError(err)
		}
	}

	claims := ClaimsOrAnonymous(ctx)
	if err := Authorize(claims, rules...); err != nil {
		p.logger.Debug("dispatch authorization failed", "type", msg.Type(), "error", err)
		return nil, err
	}

	return claims, nil
}

// runHandler executes the handler body, converting a panic into a generic
// internal failure so no diagnostic detail reaches the caller.
func runHandler[R any](ctx context.Context, p *Pipeline, msg Message, body func(ctx context.Context) (R, error)) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("dispatch handler panicked", "type", msg.Type(), "panic", r)
			err = errors.New("unexpected error executing operation", errors.CategoryInternal).
				WithCode(errors.CodeInternal)
		}
	}()

	return body(ctx)
}

// normalize guarantees callers always see a categorized error. Repo-layer
// not-found errors are checked first so they surface as the domain's
// not-found category rather than the storage one.
func (p *Pipeline) normalize(msg Message, err error) error {
	if repository.IsRecordNotFound(err) {
		return errors.Wrap(err, errors.CategoryNotFound, "record not found").
			WithCode(errors.CodeNotFound)
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr
	}

	p.logger.Error("dispatch failed", "type", msg.Type(), "error", err)
	return errors.Wrap(err, errors.CategoryInternal, "operation failed").
		WithCode(errors.CodeInternal)
}
