package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/crm"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/purchasing"
)

// ClientHandler client directory endpoints.
type ClientHandler struct {
	uc        *crm.ClientUseCase
	purchases *purchasing.PurchaseUseCase
}

// NewClientHandler builds the handler.
func NewClientHandler(uc *crm.ClientUseCase, purchases *purchasing.PurchaseUseCase) *ClientHandler {
	return &ClientHandler{uc: uc, purchases: purchases}
}

// List godoc
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Param        status  query  string  false  "active | inactive"
// @Param        search  query  string  false  "matches company, contact, email or GST number"
// @Success      200  {array}   dto.ClientResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		return err
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, cl := range list {
		out = append(out, dto.FromClient(cl))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClientRequest  true  "client"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	cl, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromClient(cl))
}

// GetByID godoc
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        id   path  string  true  "client id"
// @Success      200  {object}  dto.ClientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	cl, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromClient(cl))
}

// Update godoc
// @Summary      Replace a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "client id"
// @Param        body  body  dto.ClientRequest  true  "client"
// @Success      200   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	cl, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromClient(cl))
}

// Delete godoc
// @Summary      Delete a client
// @Tags         clients
// @Produce      json
// @Param        id   path  string  true  "client id"
// @Success      200  {object}  dto.OKResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// Purchases godoc
// @Summary      Purchases of a client
// @Tags         clients
// @Produce      json
// @Param        id        path   string  true   "client id"
// @Param        statuses  query  string  false  "comma-separated, e.g. approved,completed"
// @Success      200  {array}   dto.PurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/purchases [get]
func (h *ClientHandler) Purchases(c *fiber.Ctx) error {
	var statuses []string
	for _, s := range strings.Split(c.Query("statuses"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			statuses = append(statuses, s)
		}
	}
	list, err := h.purchases.ListByClient(c.Context(), c.Params("id"), statuses)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromPurchases(list))
}
