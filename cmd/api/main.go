package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	_ "github.com/balagrajendran/purchase-management-sub000/docs"
	"github.com/balagrajendran/purchase-management-sub000/internal/app"
	httpRouter "github.com/balagrajendran/purchase-management-sub000/internal/interfaces/http"
	"github.com/balagrajendran/purchase-management-sub000/pkg/config"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// @title                       Purchase Management API
// @version                     1.0
// @description                 Clients, purchase orders, invoices and finance KPIs.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Msg("starting")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET is empty: login and bearer-protected routes will fail")
	}

	ctx := context.Background()
	container, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build application")
	}
	defer container.Close()

	server := httpRouter.NewApp(httpRouter.AppConfig{
		Service:      cfg.App.Name,
		Production:   cfg.App.IsProduction(),
		FrontendURLs: cfg.HTTP.FrontendURLs,
		BodyLimit:    cfg.HTTP.BodyLimit,
	}, log)

	// Swagger UI at /docs when the generated document is present.
	if _, err := os.Stat(swaggerFile); err == nil {
		server.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Purchase Management API",
		}))
	}

	httpRouter.Router(server, container.RouterDeps(cfg))

	go func() {
		if err := server.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("http server")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}
