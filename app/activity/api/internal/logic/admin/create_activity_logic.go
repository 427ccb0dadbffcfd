package admin

import (
	"context"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/common/ctxdata"

	"github.com/zeromicro/go-zero/core/logx"
)

type CreateActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreateActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateActivityLogic {
	return &CreateActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreateActivityLogic) CreateActivity(req *types.CreateActivityReq) (resp *types.ActivityInfo, err error) {
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

	activity := form.toActivity(0)
	if err := l.svcCtx.Activities.Save(l.ctx, activity); err != nil {
		l.Errorf("create activity failed: %v", err)
		return nil, logic.ToBizError(err)
	}
	// a lookup of the new id may have cached a null placeholder
	l.svcCtx.InvalidateActivity(l.ctx, activity.ID)

	l.Infof("activity created: id=%d, capacity=%d, by=%d", activity.ID, activity.Capacity, ctxdata.GetUserIDFromCtx(l.ctx))
	info := logic.ToActivityInfo(activity)
	return &info, nil
}
