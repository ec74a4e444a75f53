package middleware

import (
	"strconv"
	"time"

	"backoffice-review/internal/infrastructure/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics records request count, latency and in-flight gauge by route.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			if err := next(c); err != nil {
				// resolve the status before recording
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			m.HTTPRequests.WithLabelValues(c.Request().Method, path, status).Inc()
			m.HTTPDuration.WithLabelValues(c.Request().Method, path, status).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
