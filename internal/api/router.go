package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/faceattr/internal/api/handlers"
	"github.com/your-org/faceattr/internal/api/ws"
	"github.com/your-org/faceattr/internal/queue"
	"github.com/your-org/faceattr/internal/storage"
	"github.com/your-org/faceattr/internal/vision"
)

type RouterConfig struct {
	APIKey      string
	DB          *storage.PostgresStore
	MinIO       *storage.MinIOStore
	Producer    *queue.Producer
	Hub         *ws.Hub
	Pipeline    *vision.Pipeline
	JPEGQuality int
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(APIKeyMiddleware(cfg.APIKey))

	// WebSocket
	v1.GET("/ws", cfg.Hub.HandleWS)

	// Analyze / Annotate
	analyzeH := handlers.NewAnalyzeHandler(cfg.Pipeline, cfg.MinIO, cfg.Producer, cfg.JPEGQuality)
	v1.POST("/analyze", analyzeH.Analyze)
	v1.POST("/analyze/async", analyzeH.AnalyzeAsync)
	v1.POST("/annotate", analyzeH.Annotate)

	// Stored analyses
	analysisH := handlers.NewAnalysisHandler(cfg.DB, cfg.MinIO)
	v1.GET("/analyses", analysisH.List)
	v1.GET("/analyses/:id", analysisH.Get)
	v1.GET("/analyses/:id/image", analysisH.Image)
	v1.DELETE("/analyses/:id", analysisH.Delete)

	return r
}
