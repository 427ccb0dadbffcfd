package handler

import (
	"net/http"

	admin "github.com/Wepsel/Ouderenapp/app/activity/api/internal/handler/admin"
	public "github.com/Wepsel/Ouderenapp/app/activity/api/internal/handler/public"
	signup "github.com/Wepsel/Ouderenapp/app/activity/api/internal/handler/signup"
	user "github.com/Wepsel/Ouderenapp/app/activity/api/internal/handler/user"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/common/middleware"

	"github.com/zeromicro/go-zero/rest"
)

const apiPrefix = "/api/v1"

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.Use(middleware.RequestIDMiddleware)

	// ==================== public ====================
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/activities",
				Handler: public.ListActivitiesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/activities/:id",
				Handler: public.GetActivityHandler(serverCtx),
			},
		},
		rest.WithPrefix(apiPrefix),
	)

	// ==================== registration ====================
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/activities/:id/registration",
				Handler: signup.RegisterHandler(serverCtx),
			},
			{
				Method:  http.MethodDelete,
				Path:    "/activities/:id/registration",
				Handler: signup.UnregisterHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/activities/:id/registration",
				Handler: signup.RegistrationStatusHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/activities/:id/attendees",
				Handler: signup.ListAttendeesHandler(serverCtx),
			},
		},
		rest.WithJwt(serverCtx.Config.Auth.AccessSecret),
		rest.WithPrefix(apiPrefix),
	)

	// ==================== user ====================
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/users/me/activities",
				Handler: user.MyActivitiesHandler(serverCtx),
			},
			{
				Method:  http.MethodPut,
				Path:    "/users/me/privacy",
				Handler: user.UpdatePrivacyHandler(serverCtx),
			},
		},
		rest.WithJwt(serverCtx.Config.Auth.AccessSecret),
		rest.WithPrefix(apiPrefix),
	)

	// ==================== admin ====================
	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{serverCtx.AdminAuth},
			[]rest.Route{
				{
					Method:  http.MethodPost,
					Path:    "/admin/activities",
					Handler: admin.CreateActivityHandler(serverCtx),
				},
				{
					Method:  http.MethodPut,
					Path:    "/admin/activities/:id",
					Handler: admin.UpdateActivityHandler(serverCtx),
				},
				{
					Method:  http.MethodGet,
					Path:    "/admin/activities/:id/attendees",
					Handler: admin.AdminListAttendeesHandler(serverCtx),
				},
			}...,
		),
		rest.WithJwt(serverCtx.Config.Auth.AccessSecret),
		rest.WithPrefix(apiPrefix),
	)
}
