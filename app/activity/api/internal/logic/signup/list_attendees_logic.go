package signup

import (
	"context"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListAttendeesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Attendee list with anonymous participants reduced to their location.
// Administrators get the same projection.
func NewListAttendeesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListAttendeesLogic {
	return &ListAttendeesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListAttendeesLogic) ListAttendees(req *types.ActivityIdReq) (resp *types.AttendeesResp, err error) {
	if req.ActivityId == 0 {
		return nil, errorx.ErrInvalidParams(logic.ErrMsgActivityIDInvalid)
	}

	views, err := l.svcCtx.Registration.ListAttendees(l.ctx, req.ActivityId)
	if err != nil {
		return nil, logic.ToBizError(err)
	}

	list := logic.ToAttendeeInfos(views)
	return &types.AttendeesResp{
		ActivityId: req.ActivityId,
		Total:      len(list),
		List:       list,
	}, nil
}
