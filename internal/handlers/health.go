package handlers

import (
	"context"
	"sort"
	"time"

	"campusrent/internal/repositories/cache"
	"campusrent/internal/services/escrow"

	"github.com/gofiber/fiber/v2"
)

const version = "1.0.0"

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
	stats  *escrow.StatsCollector
	cache  *cache.CacheService
}

// NewHealthHandler builds the health endpoint. stats and cacheService may be
// nil.
func NewHealthHandler(checks map[string]HealthCheck, stats *escrow.StatsCollector, cacheService *cache.CacheService) *HealthHandler {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &HealthHandler{checks: checks, stats: stats, cache: cacheService}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	services := fiber.Map{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			status = "degraded"
			services[name] = err.Error()
			continue
		}
		services[name] = "connected"
	}

	body := fiber.Map{
		"status":   status,
		"version":  version,
		"services": services,
	}
	if h.stats != nil {
		body["escrow"] = h.stats.Snapshot()
	}
	if h.cache != nil {
		pool := h.cache.GetStats()
		body["pool_stats"] = fiber.Map{
			"hits":        pool.Hits,
			"misses":      pool.Misses,
			"timeouts":    pool.Timeouts,
			"total_conns": pool.TotalConns,
			"idle_conns":  pool.IdleConns,
			"stale_conns": pool.StaleConns,
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(body)
}
