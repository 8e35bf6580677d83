package router

import (
	"time"

	"weighstation/internal/config"
	"weighstation/internal/handler"
	"weighstation/internal/infra"
	"weighstation/internal/middleware"
	"weighstation/internal/repository"
	"weighstation/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewBilling wires the billing service and returns a configured Gin engine.
func NewBilling(cfg *config.Config, db *gorm.DB, rdb *redis.Client, weight *infra.WeightClient) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	providerRepo := repository.NewProviderRepository(db)
	truckRepo := repository.NewTruckRepository(db)
	rateRepo := repository.NewRateRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	providerSvc := service.NewProviderService(providerRepo)
	truckSvc := service.NewTruckService(truckRepo, providerRepo, weight)
	rateSvc := service.NewRateService(rateRepo, rdb)
	billingSvc := service.NewBillingService(providerRepo, truckRepo, rateRepo, weight, rdb, cfg.RatesCacheTTL())

	// ── Handlers ─────────────────────────────────────────────────────────────
	providerH := handler.NewProviderHandler(providerSvc)
	truckH := handler.NewTruckHandler(truckSvc)
	ratesH := handler.NewRatesHandler(rateSvc)
	billsH := handler.NewBillsHandler(billingSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	r.POST("/provider", providerH.Create)
	r.PUT("/provider/:id", providerH.Update)

	r.POST("/truck", truckH.Create)
	r.PUT("/truck/:id", truckH.Update)
	r.GET("/truck/:id", truckH.GetData)

	r.POST("/rates", ratesH.Upload)
	r.GET("/rates", ratesH.Download)

	r.GET("/bills/:id", billsH.GetBill)

	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
