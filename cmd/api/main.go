package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/rpatel/forum-api/internal/config"
	"github.com/rpatel/forum-api/internal/handler"
	notificationHandler "github.com/rpatel/forum-api/internal/handler/notification"
	reportHandler "github.com/rpatel/forum-api/internal/handler/report"
	"github.com/rpatel/forum-api/internal/middleware"
	"github.com/rpatel/forum-api/internal/repository/postgres"
	"github.com/rpatel/forum-api/internal/router"
	notificationService "github.com/rpatel/forum-api/internal/service/notification"
	reportService "github.com/rpatel/forum-api/internal/service/report"
	"github.com/rpatel/forum-api/pkg/auth"
	"github.com/rpatel/forum-api/pkg/logger"
	"github.com/rpatel/forum-api/pkg/metrics"
)

func main() {
	appLogger := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	contentRepo := postgres.NewContentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	// Services
	m := metrics.NewMetrics("forum", "api")
	notificationSvc := notificationService.NewService(notificationRepo, userRepo, m)
	reportSvc := reportService.NewService(reportRepo, contentRepo, m)

	// Middleware
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	// Handlers
	h := handler.NewHandler()
	reportH := reportHandler.NewHandler(reportSvc)
	notificationH := notificationHandler.NewHandler(notificationSvc)

	// Router
	r := router.NewRouter(authMiddleware, reportH, notificationH, h, router.Config{
		RateLimit:     rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:     cfg.RateLimit.Burst,
		MetricsPrefix: "forum",
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error(err, "forced shutdown")
	}
}
