package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "restorank/internal/adapters/http_server"
	"restorank/internal/adapters/observability"
	redisad "restorank/internal/adapters/redis"
	"restorank/internal/adapters/sheets"
	"restorank/internal/app"
	"restorank/internal/shared"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// deps
	client := sheets.New(cfg.FetchRPS, cfg.FetchTimeout)
	agg := app.NewAggregator(client, cfg.FetchTimeout)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	session := app.NewSession(agg, shared.Sources(), cfg.DefaultMode, cache, cfg.CacheTTL)

	// first load before serving; degraded sources fall back internally
	session.Reload(context.Background())

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: session})

	log.Info().Str("addr", cfg.HTTPAddr).Str("mode", string(cfg.DefaultMode)).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
