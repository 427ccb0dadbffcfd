// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package admin

import (
	"net/http"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic/admin"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/common/errorx"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// Update an activity
func UpdateActivityHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateActivityReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrInvalidParams(err.Error()))
			return
		}

		l := admin.NewUpdateActivityLogic(r.Context(), svcCtx)
		resp, err := l.UpdateActivity(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
