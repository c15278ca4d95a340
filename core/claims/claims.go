package claims

import (
	"context"
	"errors"
)

// Claims identifies the authenticated principal of a request. UserID is the
// subject issued by the identity provider.
type Claims struct {
	UserID string
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok || v.UserID == "" {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}
