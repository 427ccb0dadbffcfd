package user

import (
	"context"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/common/ctxdata"
	"github.com/Wepsel/Ouderenapp/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

type MyActivitiesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Activities the caller is registered for, by date
func NewMyActivitiesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MyActivitiesLogic {
	return &MyActivitiesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *MyActivitiesLogic) MyActivities() (resp *types.MyActivitiesResp, err error) {
	userID := ctxdata.GetUserIDFromCtx(l.ctx)
	if userID <= 0 {
		return nil, errorx.ErrUnauthorized()
	}

	list, err := l.svcCtx.Registration.ListUserActivities(l.ctx, userID)
	if err != nil {
		l.Errorf("list user activities failed: userId=%d, err=%v", userID, err)
		return nil, logic.ToBizError(err)
	}
	return &types.MyActivitiesResp{List: logic.ToActivityInfos(list)}, nil
}
