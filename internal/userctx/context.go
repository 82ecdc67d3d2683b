// Package userctx carries the authenticated user id through request contexts.
package userctx

import (
	"context"
	"strings"
)

// DefaultOwner owns every client record when authentication is off.
const DefaultOwner = "default"

type contextKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// GetUserID reports the id set by the auth middleware, if any.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	return userID, ok
}

// OwnerID is the record owner for ctx: the signed-in user, or DefaultOwner
// for anonymous requests.
func OwnerID(ctx context.Context) string {
	if userID, ok := GetUserID(ctx); ok && strings.TrimSpace(userID) != "" {
		return userID
	}
	return DefaultOwner
}
