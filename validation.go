package blog

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field → message map keyed by the struct's json tags.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

// NewValidationError wraps a shape-check failure so callers and the
// transport layer can recover the per-field messages.
func NewValidationError(err error) *goerrors.Error {
	return goerrors.New("request validation failed", goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{
			"validation": FormatValidationErrorToMap(err),
		})
}

// ValidationFields recovers the field → message map from a dispatch error,
// or nil when the error carries none.
func ValidationFields(err error) map[string]string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Metadata == nil {
		return nil
	}
	fields, ok := richErr.Metadata["validation"].(map[string]string)
	if !ok {
		return nil
	}
	return fields
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// ValidateNoWhitespace rejects identifiers containing spaces.
func ValidateNoWhitespace() validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.ContainsAny(s, " \t\n") {
			return errors.New("must not contain whitespace")
		}
		return nil
	}
}

// ValidatePhoneNumber parses the value as a phone number for the given
// default region, e.g. "BR" or "US". Empty values pass; pair with
// validation.Required when the field is mandatory.
func ValidatePhoneNumber(region string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}

		num, err := phonenumbers.Parse(s, region)
		if err != nil {
			return errors.New("must be a valid phone number")
		}
		if !phonenumbers.IsValidNumber(num) {
			return errors.New("must be a valid phone number")
		}
		return nil
	}
}
