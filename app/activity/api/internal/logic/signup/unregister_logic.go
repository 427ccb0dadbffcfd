package signup

import (
	"context"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/common/ctxdata"
	"github.com/Wepsel/Ouderenapp/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

const ResultCancelled = "cancelled"

type UnregisterLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Cancel the caller's registration, when cancellation is enabled
func NewUnregisterLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UnregisterLogic {
	return &UnregisterLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UnregisterLogic) Unregister(req *types.ActivityIdReq) (resp *types.UnregisterResp, err error) {
	userID := ctxdata.GetUserIDFromCtx(l.ctx)
	if userID <= 0 {
		return nil, errorx.ErrUnauthorized()
	}
	if req.ActivityId == 0 {
		return nil, errorx.ErrInvalidParams(logic.ErrMsgActivityIDInvalid)
	}

	if err := l.svcCtx.Registration.Unregister(l.ctx, userID, req.ActivityId); err != nil {
		return nil, logic.ToBizError(err)
	}
	return &types.UnregisterResp{Result: ResultCancelled}, nil
}
