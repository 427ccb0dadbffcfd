package ctxdata

import (
	"context"
	"encoding/json"
	"strconv"
)

type contextKey string

const (
	CtxKeyUserID contextKey = "userId"
	CtxKeyRole   contextKey = "role"
)

// RoleAdmin is the role claim of administrators.
const RoleAdmin = "admin"

// GetUserIDFromCtx returns the caller's user id, 0 when absent.
// go-zero's jwt middleware injects claims under plain string keys.
func GetUserIDFromCtx(ctx context.Context) int64 {
	if val := ctx.Value(CtxKeyUserID); val != nil {
		return parseToInt64(val)
	}
	if val := ctx.Value("userId"); val != nil {
		return parseToInt64(val)
	}
	return 0
}

// GetRoleFromCtx returns the caller's role claim, "" when absent.
func GetRoleFromCtx(ctx context.Context) string {
	if val, ok := ctx.Value(CtxKeyRole).(string); ok {
		return val
	}
	if val, ok := ctx.Value("role").(string); ok {
		return val
	}
	return ""
}

func IsAdmin(ctx context.Context) bool {
	return GetRoleFromCtx(ctx) == RoleAdmin
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, CtxKeyRole, role)
}

func parseToInt64(val interface{}) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return 0
}
