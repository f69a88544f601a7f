package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mood-tracker/internal/catalog"
	"mood-tracker/internal/config"
	"mood-tracker/internal/db"
	"mood-tracker/internal/insights"
	"mood-tracker/internal/llm"
	"mood-tracker/internal/repository"
	"mood-tracker/internal/service"
	"mood-tracker/internal/sheets"
)

// App agrupa los servicios compartidos por la API y moodctl.
type App struct {
	Store    *service.EntryStore
	Exporter *service.ExportService
	Insights *service.InsightService
	JWT      *service.JWTService
	Catalog  *catalog.Catalog

	// ExportErr guarda por que no se pudo crear el destino de export pedido.
	ExportErr error

	pool  *pgxpool.Pool
	redis *redis.Client
}

// New arma las dependencias segun la configuracion. Los backends opcionales
// que fallan al iniciar se desactivan con un warning.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}
	a.Catalog = cat

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := client.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
			_ = client.Close()
		} else {
			a.redis = client
		}
		cancel()
	}

	var blobs repository.BlobStore
	if a.redis != nil {
		blobs = repository.NewRedisBlobStore(a.redis)
	} else {
		fileStore, err := repository.NewFileBlobStore(cfg.LocalStoreDir)
		if err != nil {
			return nil, fmt.Errorf("local store: %w", err)
		}
		blobs = fileStore
	}
	local := repository.NewLocalEntryRepository(blobs)

	var remote repository.EntryRepository
	if cfg.RemoteEnabled() {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Warn("remote store unavailable, using local backend only", zap.Error(err))
		} else if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Warn("remote schema init failed, using local backend only", zap.Error(err))
			pool.Close()
		} else {
			a.pool = pool
			remote = repository.NewPgEntryRepository(pool)
		}
	}

	thresholds := service.MoodThresholds{Bad: cfg.MoodBadThreshold, Good: cfg.MoodGoodThreshold}
	a.Store = service.NewEntryStore(local, remote, thresholds, logger)

	table, err := newExportTable(ctx, cfg)
	switch {
	case err != nil:
		logger.Warn("export target unavailable", zap.Error(err))
		a.ExportErr = err
		a.Exporter = service.NewUnavailableExportService(err, logger)
	case table != nil:
		a.Exporter = service.NewExportService(table, logger)
	}

	var requester service.InsightRequester
	if strings.TrimSpace(cfg.InsightsURL) != "" {
		requester = insights.NewHTTPClient(cfg.InsightsURL, nil)
	} else {
		llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, zap.NewStdLog(logger))
		requester = service.NewLLMInsightRequester(llmClient)
	}
	a.Insights = service.NewInsightService(a.Store, requester, logger)

	var tokenStore service.RefreshTokenStore
	if a.redis != nil {
		tokenStore = service.NewRedisRefreshTokenStore(a.redis)
	}
	a.JWT = service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if !a.JWT.Enabled() {
		logger.Warn("jwt secret not configured, only the anonymous scope is available")
	}

	return a, nil
}

// newExportTable usa Google Sheets si hay spreadsheet id y si no el xlsx local.
// Un spreadsheet id sin credenciales es un error de configuracion, no un fallback.
func newExportTable(ctx context.Context, cfg *config.Config) (sheets.Table, error) {
	if cfg.SheetsRequested() {
		table, err := sheets.NewGoogleTable(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsTab, sheets.GoogleCredentials{
			JSON: cfg.GoogleCredentialsJSON,
			File: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		return table, nil
	}
	if strings.TrimSpace(cfg.ExportXLSXPath) != "" {
		table, err := sheets.NewXLSXTable(cfg.ExportXLSXPath, cfg.SheetsTab)
		if err != nil {
			return nil, err
		}
		return table, nil
	}
	return nil, nil
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
