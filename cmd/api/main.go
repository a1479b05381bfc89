package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/svec-cse/efacilities-api/api/swagger"
	"github.com/svec-cse/efacilities-api/internal/handler"
	"github.com/svec-cse/efacilities-api/internal/middleware"
	"github.com/svec-cse/efacilities-api/internal/repository"
	"github.com/svec-cse/efacilities-api/internal/service"
	"github.com/svec-cse/efacilities-api/pkg/cache"
	"github.com/svec-cse/efacilities-api/pkg/config"
	"github.com/svec-cse/efacilities-api/pkg/database"
	"github.com/svec-cse/efacilities-api/pkg/jobs"
	"github.com/svec-cse/efacilities-api/pkg/logger"
	"github.com/svec-cse/efacilities-api/pkg/mail"
	corsmiddleware "github.com/svec-cse/efacilities-api/pkg/middleware/cors"
	reqidmiddleware "github.com/svec-cse/efacilities-api/pkg/middleware/requestid"
	"github.com/svec-cse/efacilities-api/pkg/storage"
)

// @title Exit Facilities Feedback API
// @version 1.0.0
// @description Exit survey on college facilities with email OTP verification
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var otpStore service.OTPStore
	switch cfg.OTP.Store {
	case config.OTPStoreRedis:
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		otpStore = repository.NewRedisOTPStore(redisClient, cfg.OTP.TTL)
	default:
		memStore := repository.NewMemoryOTPStore(cfg.OTP.TTL)
		if cfg.OTP.SweepInterval > 0 {
			stopSweeper := memStore.StartSweeper(cfg.OTP.SweepInterval)
			defer stopSweeper()
		}
		otpStore = memStore
	}

	archive, err := storage.NewReportArchive(cfg.Export.ArchiveDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init report archive", "error", err)
	}
	archiveQueue := jobs.NewQueue("report-archive", func(_ context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(service.ArchivePayload)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		if _, err := archive.Save(payload.Filename, payload.Data); err != nil {
			return err
		}
		if _, err := archive.CleanupOlderThan(cfg.Export.ArchiveTTL); err != nil {
			logr.Sugar().Warnw("archive cleanup failed", "error", err)
		}
		return nil
	}, jobs.QueueConfig{Workers: cfg.Export.ArchiveWorkers, Logger: logr})
	archiveQueue.Start(context.Background())
	defer archiveQueue.Stop()

	feedbackRepo := repository.NewFeedbackRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsSvc := service.NewMetricsService()
	otpSvc := service.NewOTPService(otpStore, mail.NewSMTPSender(cfg.SMTP), metricsSvc, logr, cfg.OTP)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, nil, metricsSvc, logr, cfg.Feedback.ListLimit)
	statsSvc := service.NewStatsService(feedbackRepo, metricsSvc, logr)
	exportSvc := service.NewExportService(statsSvc, nil, nil, archiveQueue, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	verificationHandler := handler.NewVerificationHandler(otpSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	statsHandler := handler.NewStatsHandler(statsSvc, exportSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/send-otp", verificationHandler.SendOTP)
		api.POST("/verify-otp", verificationHandler.VerifyOTP)
		api.POST("/feedback", feedbackHandler.Submit)
		api.POST("/auth/login", authHandler.Login)

		admin := api.Group("", middleware.JWT(authSvc))
		{
			admin.GET("/feedback/:roll", feedbackHandler.GetByRoll)
			admin.GET("/submissions", feedbackHandler.List)
			admin.GET("/stats", statsHandler.Get)
			admin.GET("/stats/download", statsHandler.Download)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
