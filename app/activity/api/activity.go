package main

import (
	"flag"
	"fmt"

	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/config"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/handler"
	"github.com/Wepsel/Ouderenapp/app/activity/api/internal/svc"
	"github.com/Wepsel/Ouderenapp/common/response"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/proc"
	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/activity-api.yaml", "the config file")

func main() {
	flag.Parse()

	// must run before server.Start()
	response.SetupGlobalErrorHandler()
	response.SetupGlobalOkHandler()

	var c config.Config
	conf.MustLoad(*configFile, &c)

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(c)
	proc.AddShutdownListener(ctx.Close)
	ctx.Start()

	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting activity-api server at %s:%d...\n", c.Host, c.Port)
	server.Start()
}
