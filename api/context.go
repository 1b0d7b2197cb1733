package api

import (
	"context"

	"github.com/pressmark-io/blog-backend/models"
)

type keyType string

const callerKey keyType = "caller"

// ctxWithCaller adds the identified caller to the context
func ctxWithCaller(ctx context.Context, caller models.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// ctxGetCaller retrieves the caller from the context, falling back to the
// anonymous caller when the auth middleware identified nobody.
func ctxGetCaller(ctx context.Context) models.Caller {
	if value := ctx.Value(callerKey); value != nil {
		if caller, ok := value.(models.Caller); ok {
			return caller
		}
	}
	return models.Anonymous()
}
