package utils

import (
	"context"
	"errors"
)

// Key type for context values
type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// GetUserIDFromContext extracts the user ID from the context
func GetUserIDFromContext(ctx context.Context) (uint, error) {
	userID, ok := ctx.Value(userIDKey).(uint)
	if !ok {
		return 0, errors.New("user ID not found in context")
	}
	return userID, nil
}

// SetUserIDToContext adds the user ID to the context
func SetUserIDToContext(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetRoleFromContext returns the caller's role, or "" when unauthenticated
func GetRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

func SetRoleToContext(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}
