package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "ilmfund-backend/internal/adapter/http"
	"ilmfund-backend/internal/adapter/middleware"
	"ilmfund-backend/internal/adapter/repository/mysql"
	"ilmfund-backend/internal/config"
	"ilmfund-backend/internal/events"
	"ilmfund-backend/internal/infrastructure/cache"
	"ilmfund-backend/internal/infrastructure/db"
	appUsecase "ilmfund-backend/internal/usecase/application"
	exportUsecase "ilmfund-backend/internal/usecase/export"
	profileUsecase "ilmfund-backend/internal/usecase/profile"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Error("mysql connect failed", "error", err)
		os.Exit(1)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Error("redis connect failed", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("kafka publisher init failed", "error", err)
			os.Exit(1)
		}
		publisher = kp
	}
	defer publisher.Close()

	// repositories and unit of work
	studentRepo := mysql.NewStudentRepository(gdb)
	applicationRepo := mysql.NewApplicationRepository(gdb)
	messageRepo := mysql.NewMessageRepository(gdb)
	guow := mysql.NewGormUoW(gdb)

	// usecases
	appUC := appUsecase.NewUsecase(studentRepo, applicationRepo, messageRepo, guow, publisher, logger)
	profUC := profileUsecase.NewUsecase(studentRepo, messageRepo, rdb,
		time.Duration(cfg.CacheTTLSecs)*time.Second, logger)
	expUC := exportUsecase.NewUsecase(applicationRepo, studentRepo)

	// handlers
	h := httpadp.NewHandler()
	appH := httpadp.NewApplicationHandler(appUC)
	profH := httpadp.NewProfileHandler(profUC)
	expH := httpadp.NewExportHandler(expUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	auth := middleware.RequireAuth(cfg.JWTSecret)
	admin := middleware.RequireRole("admin", "reviewer")

	// routes
	e.GET("/health", h.Health)

	// student-facing
	e.POST("/applications", appH.Create, auth, idemp)
	e.POST("/applications/:application_id/submit", appH.Submit, auth, idemp)
	e.GET("/applications/:application_id", appH.Get, auth)
	e.GET("/students/:student_id", profH.Get, auth)
	e.PATCH("/students/:student_id", profH.Update, auth, idemp)
	e.GET("/students/:student_id/completeness", profH.Completeness, auth)
	e.GET("/students/:student_id/messages", profH.Messages, auth)

	// admin
	e.GET("/applications", appH.List, auth, admin)
	e.PATCH("/applications/:application_id/status", appH.UpdateStatus, auth, admin, idemp)
	e.PATCH("/students/:student_id/phase", profH.AdvancePhase, auth, admin, idemp)
	e.GET("/admin/applications/export", expH.Applications, auth, admin)

	// start and shut down gracefully
	go func() {
		addr := ":" + cfg.AppPort
		logger.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
