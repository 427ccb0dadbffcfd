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

type UpdatePrivacyLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Switch anonymous participation; applies to every attendee list at once
func NewUpdatePrivacyLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UpdatePrivacyLogic {
	return &UpdatePrivacyLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UpdatePrivacyLogic) UpdatePrivacy(req *types.UpdatePrivacyReq) (resp *types.UpdatePrivacyResp, err error) {
	userID := ctxdata.GetUserIDFromCtx(l.ctx)
	if userID <= 0 {
		return nil, errorx.ErrUnauthorized()
	}

	if err := l.svcCtx.Profiles.SetAnonymous(l.ctx, userID, req.AnonymousParticipation); err != nil {
		l.Errorf("update privacy failed: userId=%d, err=%v", userID, err)
		return nil, logic.ToBizError(err)
	}
	l.Infof("privacy updated: userId=%d, anonymous=%t", userID, req.AnonymousParticipation)

	return &types.UpdatePrivacyResp{AnonymousParticipation: req.AnonymousParticipation}, nil
}
