package public

import (
	"context"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListActivitiesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Upcoming activities, soonest first
func NewListActivitiesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListActivitiesLogic {
	return &ListActivitiesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListActivitiesLogic) ListActivities(req *types.ListActivitiesReq) (resp *types.ListActivitiesResp, err error) {
	list, err := l.svcCtx.Activities.ListUpcoming(l.ctx, time.Now(), req.Limit)
	if err != nil {
		l.Errorf("list upcoming activities failed: %v", err)
		return nil, logic.ToBizError(err)
	}
	return &types.ListActivitiesResp{List: logic.ToActivityInfos(list)}, nil
}
