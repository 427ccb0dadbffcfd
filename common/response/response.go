package response

import (
	"context"
	"net/http"

	"github.com/Wepsel/Ouderenapp/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SetupGlobalErrorHandler makes every handler error render as the envelope
// with a mapped HTTP status. Call once from main before starting the server.
func SetupGlobalErrorHandler() {
	httpx.SetErrorHandlerCtx(func(ctx context.Context, err error) (int, any) {
		bizErr := errorx.FromError(err)
		if bizErr.Code == errorx.CodeInternalError {
			logx.WithContext(ctx).Errorf("[Response] unhandled error: %v", err)
		}
		return HTTPStatus(bizErr.Code), &Response{
			Code:    bizErr.Code,
			Message: bizErr.Message,
		}
	})
}

// SetupGlobalOkHandler wraps every httpx.OkJsonCtx payload in the envelope.
func SetupGlobalOkHandler() {
	httpx.SetOkHandler(func(_ context.Context, v any) any {
		return &Response{
			Code:    errorx.CodeSuccess,
			Message: "success",
			Data:    v,
		}
	})
}

// Fail writes err through the global error handler.
func Fail(ctx context.Context, w http.ResponseWriter, err error) {
	httpx.ErrorCtx(ctx, w, err)
}

// HTTPStatus maps a business code to an HTTP status.
func HTTPStatus(code int) int {
	switch code {
	case errorx.CodeSuccess:
		return http.StatusOK
	case errorx.CodeInvalidParams, errorx.CodeInvalidActivity:
		return http.StatusBadRequest
	case errorx.CodeUnauthorized:
		return http.StatusUnauthorized
	case errorx.CodeForbidden, errorx.CodeCancelDisabled:
		return http.StatusForbidden
	case errorx.CodeNotFound, errorx.CodeActivityNotFound, errorx.CodeUserNotFound:
		return http.StatusNotFound
	case errorx.CodeAlreadyRegistered, errorx.CodeCapacityExceeded, errorx.CodeNotRegistered:
		return http.StatusConflict
	case errorx.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case errorx.CodeServiceUnavailable, errorx.CodeRegistrationRetry, errorx.CodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
