package auth

import (
	"context"

	"github.com/fdg312/diet-planner/internal/userctx"
)

func WithUserID(ctx context.Context, userID string) context.Context {
	return userctx.WithUserID(ctx, userID)
}
