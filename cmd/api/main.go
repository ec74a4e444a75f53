package main

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"
	"gorm.io/gorm/logger"

	httpadp "backoffice-review/internal/adapter/http"
	"backoffice-review/internal/adapter/middleware"
	"backoffice-review/internal/adapter/repository/gormrepo"
	"backoffice-review/internal/config"
	"backoffice-review/internal/infrastructure/cache"
	"backoffice-review/internal/infrastructure/db"
	"backoffice-review/internal/infrastructure/logging"
	"backoffice-review/internal/infrastructure/mailer"
	"backoffice-review/internal/infrastructure/metrics"
	"backoffice-review/internal/infrastructure/storage"
	"backoffice-review/internal/usecase/review"
	"backoffice-review/internal/usecase/submission"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("backoffice-review", "info").Fatalj(log.JSON{"msg": "config load failed", "error": err.Error()})
	}
	lg := logging.New("backoffice-review", cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		lg.Fatalj(log.JSON{"msg": "invalid config", "error": err.Error()})
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), logger.Warn)
	if err != nil {
		lg.Fatalj(log.JSON{"msg": "database connect failed", "driver": cfg.DBDriver, "error": err.Error()})
	}
	rdb, err := cache.OpenRedis(cache.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		lg.Fatalj(log.JSON{"msg": "redis connect failed", "addr": cfg.RedisAddr, "error": err.Error()})
	}
	defer rdb.Close()

	from := mail.Address{Name: cfg.MailFromName, Address: cfg.MailFromAddress}
	var sender mailer.Sender
	switch cfg.MailProvider {
	case config.MailProviderSendgrid:
		if sender, err = mailer.NewSendgridSender(cfg.SendgridAPIKey, from); err != nil {
			lg.Fatalj(log.JSON{"msg": "sendgrid setup failed", "error": err.Error()})
		}
	default:
		sender = mailer.NewConsoleSender(from, lg)
	}

	// a nil interface, not a nil *S3Store, when storage is off
	var docs submission.DocumentStore
	if cfg.DocumentStorageEnabled() {
		s3, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			lg.Fatalj(log.JSON{"msg": "document storage setup failed", "error": err.Error()})
		}
		docs = s3
	}

	m := metrics.New()
	apps := gormrepo.NewApplicationRepository(gdb)
	profiles := gormrepo.NewProfileRepository(gdb)
	tx := gormrepo.NewGormUoW(gdb)

	e := echo.New()
	e.HideBanner = true
	e.Logger = lg
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), echomw.RequestID(), echomw.Logger(), middleware.Metrics(m))

	httpadp.RegisterRoutes(e, httpadp.Deps{
		Submission: submission.NewUsecase(apps, docs, lg, m),
		Review: review.NewUsecase(apps, profiles, tx, sender, lg, m, review.Options{
			BaseURL:           cfg.AppBaseURL,
			ChecklistFallback: cfg.ChecklistNotesFallback,
		}),
		Profiles:   profiles,
		Redis:      rdb,
		IdempTTL:   time.Duration(cfg.IdempTTLSecs) * time.Second,
		Metrics:    m,
		Logger:     lg,
		SubmitRate: rate.Limit(cfg.SubmitRatePerSec),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		lg.Infoj(log.JSON{"msg": "listening", "addr": addr, "db_driver": cfg.DBDriver, "mail": cfg.MailProvider, "documents": cfg.DocumentStorageEnabled()})
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalj(log.JSON{"msg": "server stopped", "error": err.Error()})
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Errorj(log.JSON{"msg": "graceful shutdown failed", "error": err.Error()})
	}
}
