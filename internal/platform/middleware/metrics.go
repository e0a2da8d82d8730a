package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hivcare/hivcare/pkg/metrics"
)

// Metrics returns middleware that records request counts, latency, and
// in-flight gauge on the given collector. The route pattern (not the raw
// URL) is used as the path label to keep cardinality bounded.
func Metrics(col *metrics.Collector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			col.InFlightGauge.Inc()
			start := time.Now()

			err := next(c)

			col.InFlightGauge.Dec()

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			labels := []string{c.Request().Method, path, strconv.Itoa(status)}
			col.RequestsTotal.WithLabelValues(labels...).Inc()
			col.RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
