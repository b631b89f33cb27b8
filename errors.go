package blog

import (
	"github.com/goliatone/go-errors"
)

// Stable text codes exposed on the wire. Clients match on these, never on
// the human descriptions.
const (
	TextCodeNotAuthenticated = "Usuario.NaoAutenticado"
	TextCodeAccessDenied     = "Usuario.AcessoNegado"
	TextCodeUserNotFound     = "Usuario.NaoEncontrado"
	TextCodeUsernameInUse    = "Usuario.UsernameEmUso"
	TextCodeEmailInUse       = "Usuario.EmailEmUso"
	TextCodePostNotFound     = "Postagem.NaoEncontrada"
	TextCodePostAccessDenied = "Postagem.AcessoNegado"
	TextCodeTokenExpired     = "Token.Expirado"
	TextCodeTokenInvalid     = "Token.Invalido"
)

// ErrNoEmptyString guards hashing helpers against empty input
var ErrNoEmptyString = errors.New("value must not be an empty string", errors.CategoryBadInput)

// ErrInvalidCredentials is the single answer for unknown identifier or
// wrong password; the two causes are never distinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeNotAuthenticated)

// ErrNotAuthenticated is returned when an operation requires a verified
// subject and the request carries none.
var ErrNotAuthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeNotAuthenticated)

// ErrAccessDenied is returned for an authenticated actor that lacks the
// required role or resource ownership.
var ErrAccessDenied = errors.New("access denied", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeAccessDenied)

// ErrTokenExpired reports a structurally valid token past its expiry.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenInvalid covers every other decode failure: bad signature, wrong
// issuer or audience, malformed segments. The specific cause is logged
// server-side only.
var ErrTokenInvalid = errors.New("invalid authentication token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenInvalid)

// ErrUserNotFound reports a referenced account that does not exist.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeUserNotFound)

// ErrPostNotFound reports a referenced post that does not exist or was
// inactivated.
var ErrPostNotFound = errors.New("post not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodePostNotFound)

// ErrPostAccessDenied reports a post mutation by an actor that is neither
// the author nor an admin.
var ErrPostAccessDenied = errors.New("only the author may modify this post", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodePostAccessDenied)

// ErrUsernameInUse reports a username uniqueness conflict.
var ErrUsernameInUse = errors.New("username is already taken", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeUsernameInUse)

// ErrEmailInUse reports an email uniqueness conflict.
var ErrEmailInUse = errors.New("email is already registered", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeEmailInUse)

// IsAuthError reports whether err is an authentication failure, as opposed
// to an authorization (forbidden) failure.
func IsAuthError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth
}

// IsForbiddenError reports whether err is an authorization failure for an
// authenticated actor.
func IsForbiddenError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuthz
}
