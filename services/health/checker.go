package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

type Report struct {
	Status       string                `json:"status"`
	Timestamp    time.Time             `json:"timestamp"`
	Dependencies map[string]Dependency `json:"dependencies,omitempty"`
}

type Dependency struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latencyMs"`
}

// Checker pings the database and, when configured, redis. Redis failures only degrade readiness.
type Checker struct {
	db      *gorm.DB
	redis   *redis.Client
	timeout time.Duration
}

func NewChecker(db *gorm.DB, redisClient *redis.Client) *Checker {
	return &Checker{db: db, redis: redisClient, timeout: 5 * time.Second}
}

func (h *Checker) Check(ctx context.Context) Report {
	report := Report{
		Status:       StatusHealthy,
		Timestamp:    time.Now().UTC(),
		Dependencies: make(map[string]Dependency),
	}

	if h.db != nil {
		dep := h.checkDatabase(ctx)
		report.Dependencies["database"] = dep
		if dep.Status == StatusUnhealthy {
			report.Status = StatusUnhealthy
		}
	}

	if h.redis != nil {
		dep := h.checkRedis(ctx)
		report.Dependencies["redis"] = dep
		if dep.Status == StatusUnhealthy && report.Status != StatusUnhealthy {
			report.Status = StatusDegraded
		}
	}

	return report
}

func (h *Checker) checkDatabase(ctx context.Context) Dependency {
	start := time.Now()
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	return dependency(start, err, "database unreachable")
}

func (h *Checker) checkRedis(ctx context.Context) Dependency {
	start := time.Now()
	err := h.redis.Ping(ctx).Err()
	return dependency(start, err, "redis unreachable")
}

func dependency(start time.Time, err error, failure string) Dependency {
	dep := Dependency{Status: StatusHealthy, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		dep.Status = StatusUnhealthy
		dep.Message = failure
	}
	return dep
}

func (h *Checker) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, Report{Status: StatusHealthy, Timestamp: time.Now().UTC()})
}

func (h *Checker) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report := h.Check(ctx)
	status := http.StatusOK
	if report.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, report)
}
