// Package handlers provides the gin handlers for the public API, the quote
// endpoints and the operational /-/ endpoints.
package handlers

import (
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/dto"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/ports"
)

// BuildInfo is the /-/build payload. Version, commit and build time come
// from ldflags; commit and build time fall back to the VCS stamp the Go
// toolchain embeds when they were not set.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	bi := BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, kv := range info.Settings {
			switch {
			case kv.Key == "vcs.revision" && bi.Commit == "":
				bi.Commit = kv.Value
			case kv.Key == "vcs.time" && bi.BuildTime == "":
				bi.BuildTime = kv.Value
			}
		}
	}

	return bi
}

// HealthHandler serves the operational endpoints under /-/. They bypass
// rate limiting so probes and scrapers are never throttled.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
}

func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo) *HealthHandler {
	return &HealthHandler{registry: registry, buildInfo: buildInfo}
}

// ReadinessResponse is the /-/ready payload.
type ReadinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Liveness answers /-/live without touching any dependency.
func (h *HealthHandler) Liveness(c *gin.Context) {
	dto.Write(c, http.StatusOK, dto.NewSuccess(dto.HealthResponse{Status: "ok"}, ""))
}

// Readiness answers /-/ready: 200 with every check when all pass, 503 with
// the failing checks' messages in error.details otherwise.
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.registry.CheckAll(c.Request.Context())

	if report.Status != ports.HealthStatusUnhealthy {
		dto.Write(c, http.StatusOK, dto.NewSuccess(ReadinessResponse{
			Status: string(report.Status),
			Checks: report.Checks,
		}, ""))

		return
	}

	dto.Write(c, http.StatusServiceUnavailable,
		dto.NewFailure(dto.ErrorCodeUnavailable, dto.MessageUnavailable, failingChecks(report)))
}

func failingChecks(report *ports.HealthResult) map[string]string {
	failed := make(map[string]string)
	for name, check := range report.Checks {
		if check.Status == ports.HealthStatusUnhealthy {
			failed[name] = check.Message
		}
	}

	return failed
}

// Build handles /-/build.
func (h *HealthHandler) Build(c *gin.Context) {
	dto.Write(c, http.StatusOK, dto.NewSuccess(h.buildInfo, ""))
}

// MetricsHandler serves the default Prometheus registry, which the OTel
// exporter in the telemetry package feeds.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RegisterRoutes mounts live, ready, build and metrics on rg, normally /-.
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.Build)
	rg.GET("/metrics", gin.WrapH(MetricsHandler()))
}
