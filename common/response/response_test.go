package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Wepsel/Ouderenapp/common/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{errorx.CodeSuccess, http.StatusOK},
		{errorx.CodeInvalidParams, http.StatusBadRequest},
		{errorx.CodeUnauthorized, http.StatusUnauthorized},
		{errorx.CodeCancelDisabled, http.StatusForbidden},
		{errorx.CodeActivityNotFound, http.StatusNotFound},
		{errorx.CodeCapacityExceeded, http.StatusConflict},
		{errorx.CodeTooManyRequests, http.StatusTooManyRequests},
		{errorx.CodeRegistrationRetry, http.StatusServiceUnavailable},
		{errorx.CodeInternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.code), "code %d", tt.code)
	}
}

func TestFail_UsesGlobalHandler(t *testing.T) {
	SetupGlobalErrorHandler()

	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"business", errorx.New(errorx.CodeCapacityExceeded), http.StatusConflict, errorx.CodeCapacityExceeded},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, errorx.CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Fail(context.Background(), w, tt.err)

			assert.Equal(t, tt.wantHTTP, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, errorx.GetMessage(tt.wantCode), resp.Message)
		})
	}
}

func TestOkHandler_WrapsPayload(t *testing.T) {
	SetupGlobalOkHandler()

	w := httptest.NewRecorder()
	httpx.OkJsonCtx(context.Background(), w, map[string]int{"remaining": 3})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"remaining":3}}`, w.Body.String())
}
