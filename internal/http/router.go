package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mood-tracker/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
func NewRouter(
	logger *zap.Logger,
	corsOrigins []string,
	jwtSvc *service.JWTService,
	entryH *EntryHandler,
	exportH *ExportHandler,
	insightH *InsightHandler,
	authH *AuthHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery, CORS y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(corsOrigins), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/themes", entryH.Themes)

	auth := r.Group("/auth")
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)

	// Sin token se trabaja sobre el scope anonimo.
	scoped := r.Group("", OptionalJWTAuthMiddleware(jwtSvc))
	entries := scoped.Group("/entries")
	entries.GET("", entryH.ListEntries)
	entries.GET("/:date", entryH.GetEntry)
	entries.PUT("/:date", entryH.PutEntry)
	entries.PATCH("/:date/answers", entryH.SetAnswer)
	entries.PUT("/:date/mood", entryH.SetMood)

	scoped.POST("/export", exportH.Export)
	scoped.POST("/insights", insightH.Generate)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
