package router

import (
	"time"

	"weighstation/internal/config"
	"weighstation/internal/handler"
	"weighstation/internal/middleware"
	"weighstation/internal/repository"
	"weighstation/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewWeight wires the weighing service and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func NewWeight(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	txRepo := repository.NewTransactionRepository(db)
	containerRepo := repository.NewContainerRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	weighingSvc := service.NewWeighingService(txRepo, containerRepo)
	containerSvc := service.NewContainerService(containerRepo, txRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	weightH := handler.NewWeightHandler(weighingSvc)
	batchH := handler.NewBatchHandler(containerSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	r.POST("/weight", weightH.Record)
	r.GET("/weight", weightH.List)
	r.GET("/session/:id", weightH.GetSession)
	r.GET("/item/:id", weightH.GetItem)

	r.POST("/batch-weight", batchH.Import)
	r.GET("/unknown", batchH.Unknown)

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
