package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"mood-tracker/internal/app"
	"mood-tracker/internal/config"
	apihttp "mood-tracker/internal/http"
	"mood-tracker/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer zl.Sync()

	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("app init", zap.Error(err))
	}
	defer a.Close()

	entryHandler := apihttp.NewEntryHandler(zl, a.Store, a.Catalog)
	exportHandler := apihttp.NewExportHandler(zl, a.Store, a.Exporter)
	insightHandler := apihttp.NewInsightHandler(zl, a.Insights)
	authHandler := apihttp.NewAuthHandler(zl, a.JWT)
	router := apihttp.NewRouter(zl, cfg.CORSOrigins, a.JWT, entryHandler, exportHandler, insightHandler, authHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	zl.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zl.Fatal("server error", zap.Error(err))
	}
}
