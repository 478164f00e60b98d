package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
)

// HealthHandler liveness probe.
type HealthHandler struct {
	service string
	now     func() time.Time
}

// NewHealthHandler builds the handler reporting the given service name.
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service, now: time.Now}
}

// Check godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /api/healthz [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{OK: true, Service: h.service, Time: dto.ISO(h.now())})
}
