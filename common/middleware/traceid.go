package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an id, taken from the
// X-Request-ID header or generated, echoes it back and adds it to all logx
// output of the request.
//
//	server.Use(middleware.RequestIDMiddleware)
func RequestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := logx.ContextWithFields(r.Context(), logx.Field("request_id", requestID))
		w.Header().Set(requestIDHeader, requestID)

		next(w, r.WithContext(ctx))
	}
}
