package gin

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the coarse health of the service or one dependency.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

const healthCheckTimeout = 3 * time.Second

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker probes a dependency.
type HealthChecker func(ctx context.Context) CheckResult

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// PingChecker adapts a ping function. Failures report failStatus, which lets
// optional dependencies degrade the service instead of failing it.
func PingChecker(ping func(ctx context.Context) error, failStatus HealthStatus) HealthChecker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		err := ping(ctx)
		latency := time.Since(start).String()
		if err != nil {
			return CheckResult{Status: failStatus, Message: err.Error(), Latency: latency}
		}
		return CheckResult{Status: HealthStatusHealthy, Latency: latency}
	}
}

// RegisterHealthRoutes adds GET/HEAD /health and GET /health/memory.
func RegisterHealthRoutes(router *gin.Engine, service, version string, checks map[string]HealthChecker) {
	started := time.Now()

	router.GET("/health", func(c *gin.Context) {
		resp := HealthResponse{
			Status:  HealthStatusHealthy,
			Service: service,
			Version: version,
			Uptime:  time.Since(started).Round(time.Second).String(),
		}

		if len(checks) > 0 {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()

			resp.Checks = make(map[string]CheckResult, len(checks))
			for name, check := range checks {
				result := check(ctx)
				resp.Checks[name] = result
				resp.Status = worse(resp.Status, result.Status)
			}
		}

		code := http.StatusOK
		if resp.Status == HealthStatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	})

	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/health/memory", func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		const mb = 1024 * 1024
		c.JSON(http.StatusOK, gin.H{
			"heap_alloc_mb":  float64(m.HeapAlloc) / mb,
			"heap_inuse_mb":  float64(m.HeapInuse) / mb,
			"stack_inuse_mb": float64(m.StackInuse) / mb,
			"num_gc":         m.NumGC,
			"num_goroutine":  runtime.NumGoroutine(),
		})
	})
}

func worse(a, b HealthStatus) HealthStatus {
	rank := map[HealthStatus]int{HealthStatusHealthy: 0, HealthStatusDegraded: 1, HealthStatusUnhealthy: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
