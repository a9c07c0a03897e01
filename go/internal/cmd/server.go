package main

import (
	"github.com/mcdev12/leagueconsole/go/internal/config"
	"github.com/mcdev12/leagueconsole/go/internal/web"
)

func setupServer(cfg *config.Config, services *Services) *web.Server {
	return web.NewServer(web.Options{
		Addr:           cfg.Addr(),
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		SecureCookie:   getEnv("COOKIE_SECURE", "false") == "true",
	}, services.Console, services.Hub)
}
