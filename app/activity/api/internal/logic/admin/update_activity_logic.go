package admin

import (
	"context"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/common/ctxdata"
	"github.com/Wepsel/Ouderenapp/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

type UpdateActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Lowering capacity below the current count only blocks new registrations;
// existing ones are kept.
func NewUpdateActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UpdateActivityLogic {
	return &UpdateActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UpdateActivityLogic) UpdateActivity(req *types.UpdateActivityReq) (resp *types.ActivityInfo, err error) {
	if req.ActivityId == 0 {
		return nil, errorx.ErrInvalidParams(logic.ErrMsgActivityIDInvalid)
	}
	form := activityForm{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		Capacity:    req.Capacity,
	}
	if err := form.validate(); err != nil {
		return nil, err
	}

	activity := form.toActivity(req.ActivityId)
	if err := l.svcCtx.Activities.Save(l.ctx, activity); err != nil {
		return nil, logic.ToBizError(err)
	}
	l.svcCtx.InvalidateActivity(l.ctx, activity.ID)

	l.Infof("activity updated: id=%d, capacity=%d, by=%d", activity.ID, activity.Capacity, ctxdata.GetUserIDFromCtx(l.ctx))
	info := logic.ToActivityInfo(activity)
	return &info, nil
}
