package observability

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// PrometheusHandler returns a Gin handler for Prometheus metrics
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler == nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":             "server_error",
				"error_description": "metrics handler not initialized",
			})
			return
		}
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// Int64Counter creates a counter on the global meter provider. Instrument
// errors only occur for invalid names, so a no-op counter is returned instead.
func Int64Counter(meterName, name, description string) metric.Int64Counter {
	counter, err := otel.Meter(meterName).Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		otel.Handle(err)
		counter, _ = noop.NewMeterProvider().Meter(meterName).Int64Counter(name)
	}
	return counter
}
