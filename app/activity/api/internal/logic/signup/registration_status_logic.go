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

type RegistrationStatusLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewRegistrationStatusLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RegistrationStatusLogic {
	return &RegistrationStatusLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *RegistrationStatusLogic) RegistrationStatus(req *types.ActivityIdReq) (resp *types.RegistrationStatusResp, err error) {
	userID := ctxdata.GetUserIDFromCtx(l.ctx)
	if userID <= 0 {
		return nil, errorx.ErrUnauthorized()
	}
	if req.ActivityId == 0 {
		return nil, errorx.ErrInvalidParams(logic.ErrMsgActivityIDInvalid)
	}

	registered, err := l.svcCtx.Registration.IsRegistered(l.ctx, userID, req.ActivityId)
	if err != nil {
		return nil, logic.ToBizError(err)
	}
	return &types.RegistrationStatusResp{
		ActivityId: req.ActivityId,
		Registered: registered,
	}, nil
}
