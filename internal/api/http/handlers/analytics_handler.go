package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/robotics-tickets/internal/persistence"
	"github.com/spec-kit/robotics-tickets/internal/registry"
	"github.com/spec-kit/robotics-tickets/internal/view"
)

const analyticsCacheKey = "analytics:snapshot"

// AnalyticsHandler serves the aggregate metrics computed over the full
// registry, independent of any active filter. Snapshots are briefly cached in
// Redis so dashboard polling does not recompute on every request.
type AnalyticsHandler struct {
	registry *registry.Registry
	redis    *persistence.Redis
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(reg *registry.Registry, redis *persistence.Redis, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{registry: reg, redis: redis, cacheTTL: cacheTTL, logger: logger}
}

// Get GET /analytics.
func (h *AnalyticsHandler) Get(c *fiber.Ctx) error {
	if cached := h.cachedSnapshot(c); cached != nil {
		return c.JSON(fiber.Map{"data": cached})
	}

	analytics := view.ComputeAnalytics(h.registry.Snapshot())
	h.cacheSnapshot(c, analytics)
	return c.JSON(fiber.Map{"data": analytics})
}

func (h *AnalyticsHandler) cachedSnapshot(c *fiber.Ctx) *view.Analytics {
	if h.redis == nil || h.redis.Client == nil || h.cacheTTL <= 0 {
		return nil
	}
	raw, err := h.redis.Client.Get(c.Context(), analyticsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var analytics view.Analytics
	if err := json.Unmarshal(raw, &analytics); err != nil {
		return nil
	}
	return &analytics
}

func (h *AnalyticsHandler) cacheSnapshot(c *fiber.Ctx, analytics view.Analytics) {
	if h.redis == nil || h.redis.Client == nil || h.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(analytics)
	if err != nil {
		return
	}
	if err := h.redis.Client.Set(c.Context(), analyticsCacheKey, raw, h.cacheTTL).Err(); err != nil {
		h.logger.Debug("analytics cache write failed", zap.Error(err))
	}
}
