package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"opsdeck/internal/cache"
	"opsdeck/internal/config"
	"opsdeck/internal/database"
	"opsdeck/internal/events"
	"opsdeck/internal/middleware"
	"opsdeck/internal/modules/audit"
	"opsdeck/internal/modules/catalog"
	"opsdeck/internal/modules/dashboard"
	"opsdeck/internal/modules/notification"
	"opsdeck/internal/modules/restock"
	"opsdeck/internal/pkg/logger"
	"opsdeck/internal/repository"
	"opsdeck/internal/upstream"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	log := logger.New(cfg.AppEnv)
	defer log.Sync()

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Upstream inventory backend.
	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, log)

	// Snapshot cache: redis when configured, in-memory otherwise.
	snapshotCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)

	// Domain events: kafka when configured, in-memory otherwise.
	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Warn("kafka unavailable, falling back to in-memory events", zap.Error(err))
			publisher = events.NewMemoryPublisher(log)
		}
	} else {
		publisher = events.NewMemoryPublisher(log)
	}
	defer publisher.Close()

	// Audit log store.
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	auditRepo := repository.NewAuditRepository(db)
	if err := auditRepo.Migrate(); err != nil {
		log.Fatal("audit migration failed", zap.Error(err))
	}

	// Real-time notification channel.
	hub := notification.NewHub()
	defer hub.Close()
	presenter := notification.NewPresenter(cfg.NotificationTTL, hub)

	dashboardService := dashboard.NewService(client, snapshotCache, cfg.SnapshotTTL, log)

	// Restock candidates come from the current problem-item aggregation.
	candidates := func(ctx context.Context) ([]restock.Candidate, error) {
		snap := dashboardService.Snapshot(ctx)
		out := make([]restock.Candidate, 0, len(snap.ProblemItems))
		for _, item := range snap.ProblemItems {
			if item.EquipmentID == 0 {
				continue
			}
			out = append(out, restock.Candidate{
				EquipmentID:   item.EquipmentID,
				Name:          item.Name,
				Status:        item.Status,
				StockQuantity: item.StockQuantity,
			})
		}
		return out, nil
	}
	refresh := func(ctx context.Context) {
		dashboardService.Refresh(ctx)
	}

	restockService := restock.NewService(client, presenter, candidates, auditRepo, publisher, refresh, log)
	catalogService := catalog.NewService(client, presenter, auditRepo, publisher, log)

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORS())
	r.Use(logger.GinMiddleware(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	notificationHandler := notification.NewHandler(presenter, hub, log)
	notificationHandler.RegisterWebSocket(r)

	api := r.Group("/api/v1")
	{
		dashboard.NewHandler(dashboardService).RegisterRoutes(api)
		restock.NewHandler(restockService).RegisterRoutes(api)
		catalog.NewHandler(catalogService).RegisterRoutes(api)
		notificationHandler.RegisterRoutes(api)
		audit.NewHandler(auditRepo).RegisterRoutes(api)
	}

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
