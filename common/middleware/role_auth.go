package middleware

import (
	"context"
	"net/http"

	"github.com/Wepsel/Ouderenapp/common/ctxdata"
	"github.com/Wepsel/Ouderenapp/common/errorx"
	"github.com/Wepsel/Ouderenapp/common/response"

	"github.com/zeromicro/go-zero/core/logx"
)

// AccountChecker reports whether an account may still use the API.
type AccountChecker interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
}

// RoleAuthMiddleware runs after go-zero's jwt middleware and checks the role
// claim plus the account status.
type RoleAuthMiddleware struct {
	accounts AccountChecker
	role     string
}

func NewAdminRoleMiddleware(accounts AccountChecker) *RoleAuthMiddleware {
	return &RoleAuthMiddleware{accounts: accounts, role: ctxdata.RoleAdmin}
}

func (m *RoleAuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userId := ctxdata.GetUserIDFromCtx(ctx)
		if userId <= 0 {
			response.Fail(ctx, w, errorx.ErrUnauthorized())
			return
		}

		if ctxdata.GetRoleFromCtx(ctx) != m.role {
			response.Fail(ctx, w, errorx.ErrForbidden())
			return
		}

		if m.accounts != nil {
			active, err := m.accounts.IsActive(ctx, userId)
			if err != nil {
				logx.WithContext(ctx).Errorf("[RoleAuth] status lookup failed: userId=%d, err=%v", userId, err)
				response.Fail(ctx, w, errorx.ErrServiceUnavailable())
				return
			}
			if !active {
				response.Fail(ctx, w, errorx.ErrForbidden())
				return
			}
		}

		next(w, r)
	}
}
