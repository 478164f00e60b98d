package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/settings"
)

// SettingsHandler company profile endpoints.
type SettingsHandler struct {
	uc *settings.SettingsUseCase
}

// NewSettingsHandler builds the handler.
func NewSettingsHandler(uc *settings.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get godoc
// @Summary      Company settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Router       /api/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	s, err := h.uc.Get(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromSettings(s))
}

// Save godoc
// @Summary      Save company settings
// @Description  POST and PUT both replace the profile.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettingsRequest  true  "settings"
// @Success      200   {object}  dto.SettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	var in dto.SettingsRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	s, err := h.uc.Save(c.Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromSettings(s))
}
