// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package user

import (
	"net/http"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic/user"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// Activities the caller is registered for
func MyActivitiesHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := user.NewMyActivitiesLogic(r.Context(), svcCtx)
		resp, err := l.MyActivities()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
