package http

import (
	"time"

	"backoffice-review/internal/adapter/middleware"
	"backoffice-review/internal/domain/profile"
	"backoffice-review/internal/infrastructure/logging"
	"backoffice-review/internal/infrastructure/metrics"
	"backoffice-review/internal/usecase/review"
	"backoffice-review/internal/usecase/submission"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Deps carries everything the route table needs.
type Deps struct {
	Submission *submission.Usecase
	Review     *review.Usecase
	Profiles   profile.Repository
	Redis      *redis.Client
	IdempTTL   time.Duration
	Metrics    *metrics.Metrics
	Logger     logging.Logger
	// SubmitRate limits public submissions per client IP; zero disables it.
	SubmitRate rate.Limit
}

func RegisterRoutes(e *echo.Echo, d Deps) {
	h := NewHandler()
	apps := NewApplicationHandler(d.Submission)
	rev := NewReviewHandler(d.Review)

	e.GET("/health", h.Health)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	// public intake
	submit := []echo.MiddlewareFunc{echomw.BodyLimit("12M")}
	if d.SubmitRate > 0 {
		submit = append(submit, echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(d.SubmitRate)))
	}
	e.POST("/applications/:kind", apps.Submit, submit...)

	// back office
	admin := e.Group("/admin/applications/:kind", middleware.Actor(d.Profiles))
	admin.GET("", apps.List)
	admin.GET("/:id", apps.Get)
	admin.PATCH("/:id", apps.Patch)
	admin.PUT("/:id/progress", rev.SaveProgress)
	admin.POST("/:id/decision", rev.Decide, middleware.Idempotency(d.Redis, d.IdempTTL, d.Logger))
}
