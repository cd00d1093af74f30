package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/auth"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/config"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/db"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/httpapi"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/notify"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/repository"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/service"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/worker"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	loc, err := time.LoadLocation(cfg.App.TimeZone)
	if err != nil {
		logger.Fatal("load timezone", zap.Error(err))
	}

	gormDB, err := db.NewGormDB(&cfg.DB)
	if err != nil {
		logger.Fatal("init db", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := model.AutoMigrate(gormDB); err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}

	slotRepo := repository.NewGormSlotRepository(gormDB)
	apptRepo := repository.NewGormAppointmentRepository(gormDB)
	doctorRepo := repository.NewGormDoctorRepository(gormDB)
	patientRepo := repository.NewGormPatientRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)
	eventRepo := repository.NewGormEventRepository(gormDB)

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.AMQP.URL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.AMQP.URL)
		if err != nil {
			logger.Fatal("init amqp notifier", zap.Error(err))
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	} else {
		logger.Warn("AMQP_URL not set, booking confirmations are disabled")
	}

	slotSvc := service.NewSlotService(gormDB, slotRepo, doctorRepo, eventRepo, cfg.Slots, loc, logger)
	apptSvc := service.NewAppointmentService(
		gormDB, apptRepo, slotRepo, doctorRepo, patientRepo, userRepo, eventRepo, notifier, logger)
	directorySvc := service.NewDirectoryService(gormDB, doctorRepo, patientRepo, userRepo)

	generator := worker.NewSlotGenerator(slotSvc, logger)
	if err := generator.Start(cfg.Slots.CronSpec); err != nil {
		logger.Fatal("start slot generator", zap.Error(err))
	}
	defer generator.Stop()

	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret)
	server := httpapi.NewServer(slotSvc, apptSvc, directorySvc, verifier, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: server.Router(cfg.App.RateLimitPerMinute),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.App.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
