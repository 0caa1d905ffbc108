package auth

import (
	"context"
	"errors"
)

type ctxKey int

const (
	ctxUserID ctxKey = iota
	ctxWorkspaceID
	ctxEmail
	ctxRole
)

func WithIdentity(ctx context.Context, userID, workspaceID, email, role string) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxWorkspaceID, workspaceID)
	ctx = context.WithValue(ctx, ctxEmail, email)
	ctx = context.WithValue(ctx, ctxRole, role)
	return ctx
}

func UserID(ctx context.Context) (string, error) {
	return ctxString(ctx, ctxUserID, "user_id")
}

func WorkspaceID(ctx context.Context) (string, error) {
	return ctxString(ctx, ctxWorkspaceID, "workspace_id")
}

func Email(ctx context.Context) (string, error) {
	return ctxString(ctx, ctxEmail, "email")
}

func Role(ctx context.Context) (string, error) {
	return ctxString(ctx, ctxRole, "role")
}

func ctxString(ctx context.Context, key ctxKey, name string) (string, error) {
	if s, ok := ctx.Value(key).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New(name + " not in context")
}
