package public

import (
	"context"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Activity detail with "n of C spots filled"
func NewGetActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetActivityLogic {
	return &GetActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetActivityLogic) GetActivity(req *types.ActivityIdReq) (resp *types.ActivityDetailResp, err error) {
	if req.ActivityId == 0 {
		return nil, errorx.ErrInvalidParams(logic.ErrMsgActivityIDInvalid)
	}

	activity, err := l.svcCtx.GetActivity(l.ctx, req.ActivityId)
	if err != nil {
		return nil, logic.ToBizError(err)
	}

	// the count is display only and may lag admissions briefly
	avail, err := l.svcCtx.Registration.Availability(l.ctx, req.ActivityId)
	if err != nil {
		l.Errorf("availability failed: activityId=%d, err=%v", req.ActivityId, err)
		return nil, logic.ToBizError(err)
	}

	return &types.ActivityDetailResp{
		ActivityInfo: logic.ToActivityInfo(activity),
		Registered:   avail.Registered,
		Remaining:    avail.Remaining,
	}, nil
}
