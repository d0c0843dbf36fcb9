package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/finsight/market-analysis-go/internal/database"
)

var startTime = time.Now()

// HealthHandler reports service health plus basic host statistics. Every
// dependency is optional; a nil dependency reports as disabled rather than
// unhealthy.
type HealthHandler struct {
	db         *database.PostgresDB
	redis      *database.RedisClient
	aiReady    func() bool
	marketData func() bool
	version    string
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	System    SystemStats       `json:"system"`
}

type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	Goroutines    int     `json:"goroutines"`
}

func NewHealthHandler(db *database.PostgresDB, redis *database.RedisClient, aiReady, marketDataReady func() bool, version string) *HealthHandler {
	return &HealthHandler{
		db:         db,
		redis:      redis,
		aiReady:    aiReady,
		marketData: marketDataReady,
		version:    version,
	}
}

// HealthCheck serves GET /health. A disabled dependency never degrades the
// overall status; a failing enabled one does.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	services := make(map[string]string)
	overallStatus := "healthy"

	if h.db != nil {
		if err := h.db.HealthCheck(c.Request.Context()); err != nil {
			services["database"] = "unhealthy: " + err.Error()
			overallStatus = "degraded"
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "disabled"
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(c.Request.Context()); err != nil {
			services["redis"] = "unhealthy: " + err.Error()
			overallStatus = "degraded"
		} else {
			services["redis"] = "healthy"
		}
	} else {
		services["redis"] = "disabled"
	}

	if h.aiReady != nil && h.aiReady() {
		services["ai"] = "configured"
	} else {
		services["ai"] = "not configured"
	}
	if h.marketData != nil && h.marketData() {
		services["market_data"] = "configured"
	} else {
		services["market_data"] = "mock mode"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Services:  services,
		Version:   h.version,
		Uptime:    time.Since(startTime).String(),
		System:    collectSystemStats(),
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}

// ReadinessCheck serves GET /health/ready. Stricter than HealthCheck: every
// enabled dependency must respond.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if h.db != nil {
		if err := h.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "reason": "database: " + err.Error()})
			return
		}
	}
	if h.redis != nil {
		if err := h.redis.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "reason": "redis: " + err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"ready": true})
}

func collectSystemStats() SystemStats {
	stats := SystemStats{Goroutines: runtime.NumGoroutine()}

	// Zero interval returns usage since the last call, non-blocking
	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		stats.CPUPercent = cpuPercent[0]
	}
	if memInfo, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = memInfo.UsedPercent
		stats.MemoryUsedMB = memInfo.Used / (1024 * 1024)
	}
	return stats
}
