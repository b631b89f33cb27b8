package blog

import (
	"context"

	"github.com/caderno/blog/middleware/tokenware"
)

// ContextEnricherAdapter adapts tokenware.AuthClaims to the package's
// AuthClaims and stores them in the standard context for downstream
// dispatch gates.
func ContextEnricherAdapter(c context.Context, claims tokenware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}

	return WithClaimsContext(c, authClaims)
}
