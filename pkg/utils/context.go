package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	PhoneKey  contextKey = "phone"
	RoleKey   contextKey = "role"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

func GetPhoneFromContext(ctx context.Context) (string, bool) {
	phoneVal := ctx.Value(PhoneKey)
	if phoneVal == nil {
		return "", false
	}

	phone, ok := phoneVal.(string)
	return phone, ok
}

// SetUserContext attaches the authenticated principal to the request
// context. The principal is always request-scoped, never ambient.
func SetUserContext(ctx context.Context, userID uuid.UUID, phone, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, PhoneKey, phone)
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}
