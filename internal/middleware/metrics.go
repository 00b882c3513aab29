package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"warung-service/prometheus"
)

// MetricsMiddleware adds prometheus metrics to track HTTP requests
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		prometheus.RecordHTTPRequest(
			c.Request().Method,
			c.Path(),
			strconv.Itoa(c.Response().Status),
			time.Since(start).Seconds(),
		)

		return err
	}
}
