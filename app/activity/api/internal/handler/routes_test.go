package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc/svctest"
	"github.com/Wepsel/Ouderenapp/common/errorx"
	"github.com/Wepsel/Ouderenapp/common/response"
	"github.com/Wepsel/Ouderenapp/common/utils/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/rest"
)

const testSecret = "routes-test-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiTest struct {
	t      *testing.T
	server *rest.Server
	fx     *svctest.Fixture
}

func newAPITest(t *testing.T, allowCancel bool) *apiTest {
	t.Helper()
	response.SetupGlobalErrorHandler()
	response.SetupGlobalOkHandler()

	fx := svctest.New(allowCancel)
	fx.Svc.Config.Auth.AccessSecret = testSecret

	server := rest.MustNewServer(rest.RestConf{
		ServiceConf: service.ServiceConf{Name: "activity-api-test", Log: logx.LogConf{Mode: "console"}},
		Host:        "127.0.0.1",
		Port:        0,
	})
	t.Cleanup(server.Stop)
	RegisterHandlers(server, fx.Svc)

	return &apiTest{t: t, server: server, fx: fx}
}

func (a *apiTest) token(userID int64, role jwt.Role) string {
	res, err := jwt.GenerateToken(userID, role, jwt.AuthConfig{Secret: testSecret, Expire: 3600}, time.Now())
	require.NoError(a.t, err)
	return res.Token
}

func (a *apiTest) do(method, path, token, body string) (int, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.server.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func TestRegistrationFlow(t *testing.T) {
	api := newAPITest(t, true)
	api.fx.Activity(1, "Koffieochtend", 1)
	api.fx.User(10, "Jans", false)
	api.fx.User(11, "Aaltje", true)

	// unauthenticated
	code, _ := api.do(http.MethodPost, "/api/v1/activities/1/registration", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	jans := api.token(10, jwt.RoleUser)
	code, env := api.do(http.MethodPost, "/api/v1/activities/1/registration", jans, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, errorx.CodeSuccess, env.Code)
	assert.Contains(t, string(env.Data), `"result":"registered"`)

	code, env = api.do(http.MethodPost, "/api/v1/activities/1/registration", jans, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"result":"already_registered"`)

	code, env = api.do(http.MethodPost, "/api/v1/activities/1/registration", api.token(11, jwt.RoleUser), "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, errorx.CodeCapacityExceeded, env.Code)

	code, env = api.do(http.MethodGet, "/api/v1/activities/1", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"remaining":0`)

	code, env = api.do(http.MethodGet, "/api/v1/activities/1/registration", jans, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"registered":true`)

	code, _ = api.do(http.MethodDelete, "/api/v1/activities/1/registration", jans, "")
	require.Equal(t, http.StatusOK, code)

	code, _ = api.do(http.MethodPost, "/api/v1/activities/1/registration", api.token(11, jwt.RoleUser), "")
	assert.Equal(t, http.StatusOK, code)

	code, env = api.do(http.MethodGet, "/api/v1/activities/1/attendees", jans, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"anonymous":true`)
	assert.NotContains(t, string(env.Data), "Aaltje")
}

func TestUnknownActivity(t *testing.T) {
	api := newAPITest(t, false)
	code, env := api.do(http.MethodGet, "/api/v1/activities/77", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, errorx.CodeActivityNotFound, env.Code)
}

func TestAdminRoutes(t *testing.T) {
	api := newAPITest(t, false)
	api.fx.User(1, "Beheerder", false)
	api.fx.User(10, "Jans", false)
	body := `{"name":"Bingo","location":"Dorpshuis","date":` +
		jsonInt(time.Now().Add(24*time.Hour).Unix()) + `,"capacity":20}`

	code, _ := api.do(http.MethodPost, "/api/v1/admin/activities", api.token(10, jwt.RoleUser), body)
	assert.Equal(t, http.StatusForbidden, code)

	admin := api.token(1, jwt.RoleAdmin)
	code, env := api.do(http.MethodPost, "/api/v1/admin/activities", admin, body)
	require.Equal(t, http.StatusOK, code, string(env.Data))
	assert.Contains(t, string(env.Data), `"capacity":20`)

	code, env = api.do(http.MethodPost, "/api/v1/admin/activities", admin, `{"name":"","location":"x","date":1,"capacity":1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, errorx.CodeInvalidParams, env.Code)

	code, _ = api.do(http.MethodGet, "/api/v1/admin/activities/1/attendees", admin, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestPrivacyRoute(t *testing.T) {
	api := newAPITest(t, false)
	api.fx.User(10, "Jans", false)

	code, env := api.do(http.MethodPut, "/api/v1/users/me/privacy", api.token(10, jwt.RoleUser), `{"anonymousParticipation":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"anonymousParticipation":true`)

	u, err := api.fx.Users.Get(t.Context(), 10)
	require.NoError(t, err)
	assert.True(t, u.AnonymousParticipation)
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
