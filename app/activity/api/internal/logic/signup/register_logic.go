package signup

import (
	"context"
	"errors"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/logic"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/types"
	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	"github.com/Wepsel/Ouderenapp/common/ctxdata"
	"github.com/Wepsel/Ouderenapp/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

const (
	ResultRegistered        = "registered"
	ResultAlreadyRegistered = "already_registered"
)

type RegisterLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Register the caller for an activity
func NewRegisterLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RegisterLogic {
	return &RegisterLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *RegisterLogic) Register(req *types.ActivityIdReq) (resp *types.RegisterResp, err error) {
	// 1. caller
	userID := ctxdata.GetUserIDFromCtx(l.ctx)
	if userID <= 0 {
		return nil, errorx.ErrUnauthorized()
	}
	if req.ActivityId == 0 {
		return nil, errorx.ErrInvalidParams(logic.ErrMsgActivityIDInvalid)
	}

	// 2. rate limit
	if l.svcCtx.RegistrationLimiter != nil && !l.svcCtx.RegistrationLimiter.AllowCtx(l.ctx) {
		return nil, errorx.ErrTooManyRequests()
	}

	// 3. register behind the breaker; business rejections do not trip it
	var record *registration.Record
	call := func() error {
		var regErr error
		record, regErr = l.svcCtx.Registration.Register(l.ctx, userID, req.ActivityId)
		return regErr
	}
	acceptable := func(err error) bool {
		return err == nil || registration.IsBusiness(err)
	}
	if l.svcCtx.RegistrationBreaker != nil {
		err = l.svcCtx.RegistrationBreaker.DoWithAcceptableCtx(l.ctx, call, acceptable)
	} else {
		err = call()
	}

	// 4. a repeated request reports the existing registration
	if errors.Is(err, registration.ErrAlreadyRegistered) {
		resp = &types.RegisterResp{Result: ResultAlreadyRegistered}
		if record != nil {
			resp.RegisteredAt = record.RegisteredAt.Unix()
		}
		return resp, nil
	}
	if err != nil {
		if !registration.IsBusiness(err) {
			l.Errorf("register failed: activityId=%d, userId=%d, err=%v", req.ActivityId, userID, err)
		}
		return nil, logic.ToBizError(err)
	}

	return &types.RegisterResp{
		Result:       ResultRegistered,
		RegisteredAt: record.RegisteredAt.Unix(),
	}, nil
}
