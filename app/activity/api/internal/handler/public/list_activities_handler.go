// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package public

import (
	"net/http"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic/public"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/common/errorx"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// Upcoming activities
func ListActivitiesHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ListActivitiesReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrInvalidParams(err.Error()))
			return
		}

		l := public.NewListActivitiesLogic(r.Context(), svcCtx)
		resp, err := l.ListActivities(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
