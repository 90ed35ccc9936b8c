package telemetry

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
)

const instrumentationName = "github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/telemetry"

// HeaderTraceID echoes the active trace ID on responses.
const HeaderTraceID = "X-Trace-ID"

// Middleware returns the otelgin tracing handler followed by the request
// instrumentation. Operational /-/ paths are not traced.
func Middleware(serviceName string) gin.HandlersChain {
	return gin.HandlersChain{
		otelgin.Middleware(serviceName, otelgin.WithFilter(traced)),
		instrument(),
	}
}

func traced(r *http.Request) bool {
	return !strings.HasPrefix(r.URL.Path, "/-/")
}

type httpInstruments struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	duration, errDuration := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time to serve a request"),
		metric.WithUnit("s"),
	)
	requests, errRequests := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Requests served, by route and status"),
	)
	inFlight, errInFlight := meter.Int64UpDownCounter("http.server.in_flight",
		metric.WithDescription("Requests currently being served"),
	)

	if err := errors.Join(errDuration, errRequests, errInFlight); err != nil {
		return nil, err
	}

	return &httpInstruments{duration: duration, requests: requests, inFlight: inFlight}, nil
}

// instrument tags the request with its trace ID and records route metrics.
// Unmatched paths share one "unmatched" route label.
func instrument() gin.HandlerFunc {
	inst, err := newHTTPInstruments(otel.Meter(instrumentationName))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)
			c.Request = c.Request.WithContext(logging.WithTraceID(ctx, traceID))
		}

		if inst == nil {
			c.Next()
			return
		}

		method := attribute.String("http.method", c.Request.Method)
		inst.inFlight.Add(ctx, 1, metric.WithAttributes(method))
		start := time.Now()

		c.Next()

		inst.inFlight.Add(ctx, -1, metric.WithAttributes(method))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		attrs := metric.WithAttributes(
			method,
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
		inst.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		inst.requests.Add(ctx, 1, attrs)
	}
}
